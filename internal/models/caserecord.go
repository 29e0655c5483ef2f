package models

// CaseField is one indexable top-level field of a case record. A nil
// Value means the field was absent, which is a normal state; the indexer
// simply skips it.
type CaseField struct {
	Name  string
	Value any
}

// PatientCase is the patient-facing case record schema. Field shapes are
// free-form JSON trees; only the top-level field set is fixed.
type PatientCase struct {
	Summary          any `json:"summary,omitempty"`
	Meta             any `json:"meta,omitempty"`
	SystemPrompt     any `json:"system_prompt,omitempty"`
	PatientProfile   any `json:"patient_profile,omitempty"`
	Symptoms         any `json:"symptoms,omitempty"`
	PatientResponses any `json:"patient_responses,omitempty"`
}

// Fields returns the indexable fields in declaration order, absent ones
// included with a nil Value.
func (c *PatientCase) Fields() []CaseField {
	return []CaseField{
		{"summary", c.Summary},
		{"meta", c.Meta},
		{"system_prompt", c.SystemPrompt},
		{"patient_profile", c.PatientProfile},
		{"symptoms", c.Symptoms},
		{"patient_responses", c.PatientResponses},
	}
}

// PhysicianCase is the attending-physician case record schema.
type PhysicianCase struct {
	Summary                any `json:"summary,omitempty"`
	SystemPrompt           any `json:"system_prompt,omitempty"`
	KeyHistoryPoints       any `json:"keyHistoryPoints,omitempty"`
	TeachingFlow           any `json:"teachingFlow,omitempty"`
	RelevantInvestigations any `json:"relevantInvestigations,omitempty"`
	DifferentialDiagnosis  any `json:"differentialDiagnosis,omitempty"`
	CommonMedications      any `json:"commonMedications,omitempty"`
}

func (c *PhysicianCase) Fields() []CaseField {
	return []CaseField{
		{"summary", c.Summary},
		{"system_prompt", c.SystemPrompt},
		{"keyHistoryPoints", c.KeyHistoryPoints},
		{"teachingFlow", c.TeachingFlow},
		{"relevantInvestigations", c.RelevantInvestigations},
		{"differentialDiagnosis", c.DifferentialDiagnosis},
		{"commonMedications", c.CommonMedications},
	}
}

// KeyPointTexts extracts the "point" text of each keyHistoryPoints entry,
// in file order. Entries without a point string are skipped.
func (c *PhysicianCase) KeyPointTexts() []string {
	items, ok := c.KeyHistoryPoints.([]any)
	if !ok {
		return nil
	}
	var points []string
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if point, ok := obj["point"].(string); ok && point != "" {
			points = append(points, point)
		}
	}
	return points
}
