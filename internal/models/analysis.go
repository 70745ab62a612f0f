package models

// Entities holds the structured fragments extracted from note text.
// Values within each kind are unique, ordered by first occurrence.
type Entities struct {
	Dates     []string `json:"dates"`
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
	People    []string `json:"people"`
	Tasks     []string `json:"tasks"`
	Locations []string `json:"locations"`
}

// AnalysisResult is the output of the text analyzer.
// Category == CategoryGeneral implies Confidence == 0.5 (fixed sentinel).
type AnalysisResult struct {
	Category         Category `json:"category"`
	Confidence       float64  `json:"confidence"`
	Tags             []string `json:"tags"`
	Entities         Entities `json:"extracted_entities"`
	Priority         Priority `json:"priority"`
	Insights         []string `json:"insights"`
	SuggestedActions []string `json:"suggested_actions"`
}
