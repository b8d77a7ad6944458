package model

// Category buckets a finding into one of four fixed groups.
type Category string

const (
	CategoryEquipmentVehicle     Category = "EQUIPMENT/VEHICLE ISSUES"
	CategoryBehavioralCompliance Category = "BEHAVIORAL/COMPLIANCE"
	CategoryHousekeepingSite     Category = "HOUSEKEEPING/SITE CONDITIONS"
	CategoryDocumentation        Category = "DOCUMENTATION"
)

// Status is the follow-up state derived from an assessment's text.
type Status string

const (
	StatusOpen             Status = "Open"
	StatusCorrectedOnSite  Status = "Corrected on site"
	StatusRequiresFollowUp Status = "Requires follow-up"
)

// AssessmentFinding is a field assessment that contained at least one finding.
type AssessmentFinding struct {
	ReportID string `json:"report_id"`
	Date     string `json:"date"`
	Yard     string `json:"yard"`
	Assessor string `json:"assessor"`
	Status   Status `json:"status"`

	// Findings holds every extracted excerpt in field order.
	Findings []string `json:"findings"`
	// Categories groups the same findings by category. An assessment with
	// zero findings is never represented here; it is a CleanAssessment.
	Categories map[Category][]string `json:"categories"`
}

// CleanAssessment is a field assessment with no extracted findings.
type CleanAssessment struct {
	ReportID string `json:"report_id"`
	Date     string `json:"date"`
	Yard     string `json:"yard"`
}

// AssessmentAnalysis is the full breakdown of a batch of field assessments.
type AssessmentAnalysis struct {
	WithFindings []AssessmentFinding `json:"with_findings"`
	Clean        []CleanAssessment   `json:"clean"`
	ByYard       map[string]int      `json:"by_yard"`
	ByRep        map[string]int      `json:"by_rep"`
}
