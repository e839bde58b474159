// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// Option is a select-box entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options maps plain values to options labelled by themselves.
func Options(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Label: v, Value: v})
	}
	return out
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
