// Package findings scans free-form EHS field-assessment rows and decides,
// via keyword heuristics, whether they contain reportable findings.
//
// The bar for a finding is deliberately asymmetric: text is only recorded
// when it signals something was actually wrong or had to be fixed, never as
// an affirmation of good condition. An assessment with zero extracted
// findings is classified clean.
package findings

import (
	"context"
	"sort"
	"strings"

	"github.com/krhodes5267/daily-safety-report/internal/domain/model"
	"github.com/krhodes5267/daily-safety-report/pkg/logger"
	"github.com/krhodes5267/daily-safety-report/pkg/metrics"
)

// minFindingLength drops fragments too short to describe anything.
const minFindingLength = 5

// maxOpaqueTokenLength bounds the single-token field-code heuristic;
// vendor field codes look like "vonz52oh7281f36pc831".
const maxOpaqueTokenLength = 30

// AssessmentRow is one flattened EHS form response. Columns preserves the
// export's column order; Fields maps column name to value.
type AssessmentRow struct {
	Columns []string
	Fields  map[string]string
}

// Get returns the trimmed value of the named column.
func (r AssessmentRow) Get(name string) string {
	return strings.TrimSpace(r.Fields[name])
}

// columnOrder returns Columns when the export supplied one, else the field
// names sorted, so rows built directly from maps stay deterministic.
func (r AssessmentRow) columnOrder() []string {
	if len(r.Columns) > 0 {
		return r.Columns
	}
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extract scans every non-metadata field of a row and returns finding
// excerpts verbatim (trimmed), in the export's column order.
func Extract(row AssessmentRow) []string {
	var out []string
	for _, key := range row.columnOrder() {
		val := strings.TrimSpace(row.Fields[key])
		if !isFinding(strings.ToLower(strings.TrimSpace(key)), val) {
			continue
		}
		out = append(out, val)
	}
	return out
}

// isFinding applies the full skip chain to one field value.
func isFinding(keyLower, val string) bool {
	if _, ok := metaFields[keyLower]; ok {
		return false
	}
	if _, ok := contextFields[keyLower]; ok {
		return false
	}
	if len(val) < minFindingLength {
		return false
	}

	valLower := strings.ToLower(val)

	if strings.Contains(valLower, "http://") || strings.Contains(valLower, "https://") {
		return false
	}
	if isNumericOrDate(val) {
		return false
	}
	if _, ok := boilerplate[valLower]; ok {
		return false
	}
	if isOpaqueToken(val, valLower) {
		return false
	}

	hasCorrective := containsAny(valLower, correctiveKeywords)

	// Positive observations are skipped unless the same text also signals
	// a correction ("proper PPE" vs "proper PPE was not worn, replaced").
	if containsAny(valLower, positivePhrases) && !hasCorrective {
		return false
	}
	for _, pfx := range positivePrefixes {
		if strings.HasPrefix(valLower, pfx) && !hasCorrective {
			return false
		}
	}

	return hasCorrective
}

// isNumericOrDate reports whether a value is purely numeric or date-like
// once separators are removed.
func isNumericOrDate(val string) bool {
	stripped := strings.NewReplacer(".", "", "-", "", "/", "", ":", "", " ", "").Replace(val)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isOpaqueToken reports whether a value looks like an internal field code:
// a short single alphanumeric token with no finding keyword present.
func isOpaqueToken(val, valLower string) bool {
	if len(val) >= maxOpaqueTokenLength || strings.Contains(val, " ") {
		return false
	}
	stripped := strings.NewReplacer("_", "", "-", "").Replace(val)
	for _, r := range stripped {
		isAlnum := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !isAlnum {
			return false
		}
	}
	return !containsAny(valLower, findingKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Categorize scores a finding against the four category keyword sets and
// returns the highest-scoring category. Zero-score ties default to
// behavioral/compliance.
func Categorize(text string) model.Category {
	textLower := strings.ToLower(text)
	scores := []struct {
		category model.Category
		score    int
	}{
		{model.CategoryEquipmentVehicle, countMatches(textLower, equipmentKeywords)},
		{model.CategoryBehavioralCompliance, countMatches(textLower, behaviorKeywords)},
		{model.CategoryHousekeepingSite, countMatches(textLower, housekeepingKeywords)},
		{model.CategoryDocumentation, countMatches(textLower, documentationKeywords)},
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	if best.score > 0 {
		return best.category
	}
	return model.CategoryBehavioralCompliance
}

func countMatches(s string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			n++
		}
	}
	return n
}

// Status derives the follow-up state of an assessment. Correction and
// follow-up phrases anywhere in the row win over the explicit status
// column; rows with neither are Open.
func Status(row AssessmentRow) model.Status {
	for _, k := range row.columnOrder() {
		valLower := strings.ToLower(row.Get(k))
		if valLower == "" {
			continue
		}
		if strings.Contains(valLower, "corrected on site") ||
			strings.Contains(valLower, "corrected on-site") ||
			strings.Contains(valLower, "replaced on site") {
			return model.StatusCorrectedOnSite
		}
		if strings.Contains(valLower, "follow up") ||
			strings.Contains(valLower, "follow-up") ||
			strings.Contains(valLower, "requires follow") {
			return model.StatusRequiresFollowUp
		}
	}

	if status := row.Get("status"); status != "" {
		return model.Status(status)
	}
	return model.StatusOpen
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithObserverYards maps observer last names (lower-cased) to their
// primary yard for accountability counts.
func WithObserverYards(m map[string]string) Option {
	return func(a *Analyzer) {
		if m != nil {
			a.observerYards = m
		}
	}
}

// WithObserverReps maps observer last names (lower-cased) to the safety
// rep accountability key.
func WithObserverReps(m map[string]string) Option {
	return func(a *Analyzer) {
		if m != nil {
			a.observerReps = m
		}
	}
}

// WithYardOrder sets the yard names searched for inside location fields.
func WithYardOrder(yards []string) Option {
	return func(a *Analyzer) {
		if yards != nil {
			a.yardOrder = yards
		}
	}
}

// WithLogger sets a custom logger for the analyzer.
func WithLogger(log logger.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// Analyzer turns raw assessment rows into the findings/clean breakdown.
type Analyzer struct {
	observerYards map[string]string
	observerReps  map[string]string
	yardOrder     []string
	log           logger.Logger
}

// NewAnalyzer constructs an Analyzer; options supply the accountability maps.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		observerYards: map[string]string{},
		observerReps:  map[string]string{},
		log:           logger.Named("findings"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze splits assessments into with-findings and clean, grouping each
// assessment's findings by category and accumulating by-yard and by-rep
// accountability counts.
func (a *Analyzer) Analyze(ctx context.Context, rows []AssessmentRow) model.AssessmentAnalysis {
	analysis := model.AssessmentAnalysis{
		WithFindings: []model.AssessmentFinding{},
		Clean:        []model.CleanAssessment{},
		ByYard:       map[string]int{},
		ByRep:        map[string]int{},
	}

	for _, row := range rows {
		rep := a.assessmentObserver(row)
		yard := a.rowYard(row)
		if yard == "" {
			yard = a.observerYard(rep)
		}
		if yard == "" {
			yard = "Unknown"
		}
		reportID := row.Get("report number")
		if reportID == "" {
			reportID = "N/A"
		}
		date := row.Get("date")
		if date == "" {
			date = "N/A"
		}

		analysis.ByYard[yard]++
		analysis.ByRep[a.observerRep(rep)]++

		extracted := Extract(row)
		if len(extracted) == 0 {
			metrics.RecordCleanAssessment()
			analysis.Clean = append(analysis.Clean, model.CleanAssessment{
				ReportID: reportID,
				Date:     date,
				Yard:     yard,
			})
			continue
		}

		categories := map[model.Category][]string{}
		for _, f := range extracted {
			cat := Categorize(f)
			categories[cat] = append(categories[cat], f)
			metrics.RecordFindingExtracted()
		}

		a.log.Debug(ctx, "assessment findings extracted",
			logger.String("reportID", reportID),
			logger.String("yard", yard),
			logger.Int("findings", len(extracted)),
		)

		analysis.WithFindings = append(analysis.WithFindings, model.AssessmentFinding{
			ReportID:   reportID,
			Date:       date,
			Yard:       yard,
			Assessor:   rep,
			Status:     Status(row),
			Findings:   extracted,
			Categories: categories,
		})
	}

	return analysis
}

// assessmentObserver returns who filed the assessment: the observer column
// first since the name column may be the person being assessed.
func (a *Analyzer) assessmentObserver(row AssessmentRow) string {
	for _, key := range []string{"observer", "Name", "name"} {
		v := row.Get(key)
		lower := strings.ToLower(v)
		if v != "" && lower != "none" && lower != "unknown" {
			return v
		}
	}
	return model.UnknownDriver
}

// rowYard extracts a yard name mentioned in the row's location fields.
func (a *Analyzer) rowYard(row AssessmentRow) string {
	field := row.Get("yard")
	if field == "" {
		field = row.Get("location")
	}
	fieldLower := strings.ToLower(field)
	for _, yard := range a.yardOrder {
		if strings.Contains(fieldLower, strings.ToLower(yard)) {
			return yard
		}
	}
	return ""
}

func (a *Analyzer) observerYard(observer string) string {
	obsLower := strings.ToLower(observer)
	for lastName, yard := range a.observerYards {
		if strings.Contains(obsLower, lastName) {
			return yard
		}
	}
	return ""
}

func (a *Analyzer) observerRep(observer string) string {
	obsLower := strings.ToLower(observer)
	for lastName, rep := range a.observerReps {
		if strings.Contains(obsLower, lastName) {
			return rep
		}
	}
	return observer
}
