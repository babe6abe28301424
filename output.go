package edgar

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// FormatJSON returns pretty-printed JSON for a statement or batch result
func FormatJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return pretty.Pretty(data), nil
}

// MarshalJSON adds the error messages, which encoding/json cannot render.
func (b *BatchResult) MarshalJSON() ([]byte, error) {
	type plain BatchResult
	errs := make([]string, 0, len(b.Errors))
	for _, err := range b.Errors {
		errs = append(errs, err.Error())
	}
	return json.Marshal(struct {
		*plain
		Errors []string `json:"errors"`
	}{(*plain)(b), errs})
}
