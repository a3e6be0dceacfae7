package models

import (
	"encoding/json"
	"time"

	"github.com/miradorstack/fleetview/internal/utils"
)

// Brief is the periodic natural-language fleet brief, returned verbatim from GET /user/brief.
type Brief struct {
	Range  Range  `json:"range"`
	Cached bool   `json:"cached"`
	Brief  string `json:"brief"`
	// GeneratedAt is set by servers that report when the text was produced. Any timestamp
	// form utils.ParseTimestamp understands is accepted; other values leave it nil.
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// UnmarshalJSON decodes a brief, reading generated_at leniently so an unusual timestamp
// never fails the whole envelope.
func (b *Brief) UnmarshalJSON(data []byte) error {
	type plain Brief
	var aux struct {
		plain
		GeneratedAt any `json:"generated_at"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Brief(aux.plain)
	b.GeneratedAt = nil
	if aux.GeneratedAt != nil {
		if t, err := utils.ParseTimestamp(aux.GeneratedAt); err == nil {
			b.GeneratedAt = &t
		}
	}
	return nil
}

// Insight is the interaction insight summary, returned verbatim from GET /interactions/insight.
type Insight struct {
	Range   Range          `json:"range"`
	Stats   map[string]any `json:"stats"`
	Insight string         `json:"insight"`
	Cached  bool           `json:"cached"`
}

// InteractionPage is the whole GET /interactions envelope.
type InteractionPage struct {
	Interactions []Interaction  `json:"interactions"`
	Stats        map[string]any `json:"stats"`
}
