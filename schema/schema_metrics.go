package schema

// MetricsStrategy represents a scoring strategy for display purposes.
type MetricsStrategy struct {
	Name       string   `json:"name"`
	Purpose    string   `json:"purpose"`
	ScoreRange string   `json:"score_range"`
	Sentinel   string   `json:"sentinel,omitempty"` // Only geometric screening has one
	Formula    string   `json:"formula"`
	Thresholds string   `json:"thresholds"`
	Similarity []string `json:"similarity,omitempty"` // Supported similarity kinds
}

// MetricsRenderModel contains all processed data needed for displaying
// strategy and metric definitions.
type MetricsRenderModel struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Strategies  []MetricsStrategy `json:"strategies"`
	Metrics     map[string]string `json:"metrics"`
}
