package findings

// metaFields are assessment columns that are metadata, never content.
var metaFields = map[string]struct{}{
	"report number": {},
	"date":          {},
	"observer":      {},
	"status":        {},
	"link":          {},
	"kpa_link":      {},
	"name":          {},
	"form":          {},
	"form_id":       {},
	"updated_at":    {},
	"created_at":    {},
	"report":        {},
	"id":            {},
	"response_id":   {},
}

// contextFields name the site or organization being assessed, not a finding.
var contextFields = map[string]struct{}{
	"operator":   {},
	"company":    {},
	"division":   {},
	"department": {},
	"location":   {},
	"site":       {},
	"yard":       {},
	"area":       {},
	"unit":       {},
	"rig":        {},
	"crew":       {},
	"shift":      {},
}

// boilerplate values carry no finding content on their own.
var boilerplate = map[string]struct{}{
	"yes":            {},
	"no":             {},
	"n/a":            {},
	"na":             {},
	"pass":           {},
	"ok":             {},
	"good":           {},
	"safe":           {},
	"true":           {},
	"false":          {},
	"compliant":      {},
	"satisfactory":   {},
	"acceptable":     {},
	"not applicable": {},
	"none":           {},
	"no issues":      {},
	"no findings":    {},
	"casing":         {},
	"csg":            {},
	"brhas":          {},
	"butch":          {},
}

// positivePhrases indicate a clean observation; skipped unless the same
// text also carries a corrective keyword.
var positivePhrases = []string{
	"no unsafe practices", "good hand placement", "good communication",
	"all good", "no issues", "doing a good job", "no findings",
	"good job", "no concerns", "satisfactory", "in compliance",
	"properly worn", "properly secured", "no deficiencies",
	"good housekeeping", "well maintained", "good condition",
	"no hazards", "no violations", "no corrective",
	"safe practices", "following procedure", "good practice",
	"proper hand placement", "no members placing",
	"keeping hands out of hazardous", "maintaining proper body positioning",
}

// positivePrefixes open purely positive observations.
var positivePrefixes = []string{"proper ", "no members ", "no unsafe "}

// correctiveKeywords confirm something was actually wrong or had to be
// fixed. A finding is only recorded when one of these is present.
var correctiveKeywords = []string{
	"corrected", "found", "issue", "should not", "replaced", "reminded",
	"had to", "violated", "failed", "missing", "damaged", "broken",
	"not worn", "not completed", "not following", "not in compliance",
	"improper", "unsafe", "need to", "needs", "disappointed",
	"hazard", "deficien", "violation", "incomplete", "expired",
}

// findingKeywords distinguish finding-like text from opaque field codes.
var findingKeywords = []string{
	"corrective", "corrected", "finding", "found", "hazard", "deficien",
	"violation", "issue", "damaged", "broken", "missing", "expired",
	"not completed", "not worn", "failed", "needs repair", "need to",
	"needs replacement", "out of date", "should not", "replaced",
	"disappointed", "no jsa", "no ppe", "not in compliance",
	"not following", "improper", "unsafe", "leak", "spill", "trip",
	"not secured", "unsecured", "obstruct", "crack", "worn", "frayed",
	"no fire", "no extinguisher", "no permit", "incomplete",
}

// Category keyword sets. The highest-scoring category wins; zero-score
// ties default to behavioral/compliance.
var equipmentKeywords = []string{
	"equipment", "vehicle", "truck", "trailer", "tire", "brake",
	"light", "engine", "hydraulic", "pump", "hose", "chain",
	"tool", "wrench", "damaged", "broken", "repair", "maintenance",
	"defect", "mechanical", "gauge", "pressure",
}

var behaviorKeywords = []string{
	"ppe", "hard hat", "glasses", "gloves", "vest", "jsa",
	"procedure", "shortcut", "compliance", "not worn",
	"not completed", "not following", "behavior", "seatbelt",
	"cell phone", "speed", "horseplay", "training", "cert",
}

var housekeepingKeywords = []string{
	"housekeeping", "clean", "messy", "trip", "slip",
	"rigging", "spill", "debris", "clutter", "organized",
	"stacked", "stored", "site condition", "ground",
	"walk", "path", "access",
}

var documentationKeywords = []string{
	"permit", "certification", "paperwork", "document", "expired",
	"inspection", "checklist", "log", "record", "sign", "posted",
	"label", "sds", "msds",
}
