// Package checklist implements the weekly checklist lifecycle: expanding
// the team×product×copy-type grid for a new week, carrying still-alive
// tracking codes forward, and reconciling code assignments against real
// ad spend every day.
package checklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// NormalizeCodes parses the stored tracking-code field into an ordered
// list of non-empty codes. The stored form may legally be empty, "[]",
// a JSON list, a JSON scalar, or a single bare code. The function never
// fails: anything that does not decode as JSON is treated as one
// literal code.
func NormalizeCodes(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "[]" {
		return []string{}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		// Bare tracking code, stored without JSON encoding.
		return []string{trimmed}
	}
	// A bare code like "250101AD" decodes as the number 250101 with
	// trailing data left over; it must stay one literal code.
	if _, err := dec.Token(); err != io.EOF {
		return []string{trimmed}
	}

	list, ok := value.([]any)
	if !ok {
		list = []any{value}
	}

	codes := make([]string, 0, len(list))
	for _, item := range list {
		if s := stringify(item); s != "" {
			codes = append(codes, s)
		}
	}
	return codes
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// EncodeCodes serializes codes back into the stored representation: a
// JSON list when non-empty, the empty string (stored as NULL) otherwise.
func EncodeCodes(codes []string) string {
	if len(codes) == 0 {
		return ""
	}
	data, _ := json.Marshal(codes)
	return string(data)
}
