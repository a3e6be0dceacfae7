package models

// UserRequest is submitted to POST /user/request.
type UserRequest struct {
	Type string `json:"type"`
	// TargetArea is encoded as null when unset.
	TargetArea *string        `json:"target_area"`
	Meta       map[string]any `json:"meta"`
}

// Settings is the application settings object.
type Settings map[string]any

// Ack is the service-defined acknowledgement of a write.
type Ack map[string]any

// OK reports whether the ack carries a truthy "ok" or "success" field. Acks without either
// field are treated as accepted, since the HTTP status already signalled success.
func (a Ack) OK() bool {
	for _, key := range []string{"ok", "success"} {
		if v, present := a[key]; present {
			b, isBool := v.(bool)
			return isBool && b
		}
	}
	return true
}
