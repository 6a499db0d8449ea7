package checklist

import (
	"reflect"
	"testing"
)

func TestNormalizeCodes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace", "  ", []string{}},
		{"empty list", "[]", []string{}},
		{"json list", `["AD100","AD200"]`, []string{"AD100", "AD200"}},
		{"json list drops empties", `["AD100","",null]`, []string{"AD100"}},
		{"json scalar string", `"AD100"`, []string{"AD100"}},
		{"json scalar number", `42`, []string{"42"}},
		{"json null", `null`, []string{}},
		{"bare code", "AD100", []string{"AD100"}},
		{"bare code with dashes", "camp-1234-x", []string{"camp-1234-x"}},
		{"bare code with numeric prefix", "250101AD", []string{"250101AD"}},
		{"bare week-shaped code", "2026-W05", []string{"2026-W05"}},
		{"bare code with inner space", "123 456", []string{"123 456"}},
		{"list with trailing garbage", `["AD100"] extra`, []string{`["AD100"] extra`}},
		{"invalid json", `["AD100"`, []string{`["AD100"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCodes(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCodes(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEncodeCodes(t *testing.T) {
	if got := EncodeCodes(nil); got != "" {
		t.Errorf("EncodeCodes(nil) = %q, want empty", got)
	}
	if got := EncodeCodes([]string{}); got != "" {
		t.Errorf("EncodeCodes([]) = %q, want empty", got)
	}
	if got := EncodeCodes([]string{"AD100", "AD200"}); got != `["AD100","AD200"]` {
		t.Errorf("EncodeCodes = %q", got)
	}
}

func TestEncodeNormalizeRoundTrip(t *testing.T) {
	codes := []string{"AD100", "AD200", "AD300"}
	got := NormalizeCodes(EncodeCodes(codes))
	if !reflect.DeepEqual(got, codes) {
		t.Errorf("round trip = %v, want %v", got, codes)
	}
}
