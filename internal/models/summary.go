package models

// Summary is the dashboard landing snapshot. It is rebuilt on every fetch.
type Summary struct {
	Robots map[string]any `json:"robots"`
	Tasks  map[string]any `json:"tasks"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Summary sources recorded under meta.source.
const (
	SummarySourceServer = "server"
	SummarySourceClient = "client"
)
