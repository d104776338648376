package engine

import (
	"encoding/json"
	"strings"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

// ParseResult trims and decodes the raw response body. Empty or null bodies
// are EmptyResponse errors; anything not matching ResultSchema is a Schema
// error. Only a fully validated payload becomes a domain.Result.
func ParseResult(text string) (domain.Result, error) {
	body := strings.TrimSpace(text)
	if body == "" || body == "null" {
		return domain.Result{}, domain.NewEmptyResponseError()
	}
	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.Result{}, domain.NewSchemaError("response is not valid JSON: %v", err)
	}
	if err := ResultSchema.Validate(raw); err != nil {
		return domain.Result{}, err
	}
	var res domain.Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		return domain.Result{}, domain.NewSchemaError("decode result: %v", err)
	}
	return res, nil
}
