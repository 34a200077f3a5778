package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The model is known to wrap JSON in prose or code fences despite
// instructions, so responses go through a tiered decode: strict parse
// first, then the substring between the first '{' and the last '}'.
// Callers substitute their own static fallback when both tiers fail.

// DecodeLoose decodes raw into v, tolerating prose-wrapped JSON.
func DecodeLoose(raw string, v interface{}) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	inner, ok := braceBounded(raw)
	if !ok {
		return fmt.Errorf("no JSON object found in response")
	}
	if err := json.Unmarshal([]byte(inner), v); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}

// ExtractJSON returns the JSON object text contained in raw, applying the
// same tiers as DecodeLoose but preserving the text instead of decoding it.
func ExtractJSON(raw string) (string, error) {
	if json.Valid([]byte(raw)) {
		return raw, nil
	}

	inner, ok := braceBounded(raw)
	if !ok {
		return "", fmt.Errorf("no JSON object found in response")
	}
	if !json.Valid([]byte(inner)) {
		return "", fmt.Errorf("response substring is not valid JSON")
	}
	return inner, nil
}

func braceBounded(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
