package models

// Priority levels used across requirements, recommendations and action items.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Sentiment values produced by the analyzer.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Requirement is one client requirement extracted from a conversation.
type Requirement struct {
	Requirement string `json:"requirement"`
	Priority    string `json:"priority"`
	MentionedBy string `json:"mentioned_by"`
	Context     string `json:"context"`
}

// Recommendation is one product recommendation with its rationale.
type Recommendation struct {
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
	ProductFit     string `json:"product_fit"`
	Priority       string `json:"priority"`
}

// Summary condenses the conversation.
type Summary struct {
	Overview        string `json:"overview"`
	ClientNeeds     string `json:"client_needs,omitempty"`
	PainPoints      string `json:"pain_points,omitempty"`
	Opportunities   string `json:"opportunities,omitempty"`
	NextSteps       string `json:"next_steps,omitempty"`
	Sentiment       string `json:"sentiment,omitempty"`
	EngagementLevel string `json:"engagement_level,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ActionItem is a follow-up task identified in the conversation.
type ActionItem struct {
	Action   string `json:"action"`
	Owner    string `json:"owner"`
	Priority string `json:"priority"`
}

// AnalysisResult is the structured output of a transcript analysis.
// All five collection keys are always present, including on the error path.
type AnalysisResult struct {
	Requirements    []Requirement    `json:"requirements"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
	KeyPoints       []string         `json:"key_points"`
	ActionItems     []ActionItem     `json:"action_items"`
	Error           string           `json:"error,omitempty"`
}

// IsError reports whether the result is the fixed failure envelope.
func (r *AnalysisResult) IsError() bool { return r.Error != "" }

// ErrorAnalysis builds the fixed failure envelope. Every list key is an empty
// slice rather than nil so the serialized form always carries all five keys.
func ErrorAnalysis(message string) *AnalysisResult {
	return &AnalysisResult{
		Requirements:    []Requirement{},
		Recommendations: []Recommendation{},
		Summary: Summary{
			Overview: "Analysis failed",
			Error:    message,
		},
		KeyPoints:   []string{},
		ActionItems: []ActionItem{},
		Error:       message,
	}
}
