package service

import (
	"encoding/json"
	"testing"
)

func TestOptionalStringStates(t *testing.T) {
	type payload struct {
		Ref OptionalString `json:"ref"`
	}

	cases := []struct {
		name    string
		body    string
		wantSet bool
		wantRef *string
	}{
		{"absent field stays unset", `{}`, false, nil},
		{"explicit null clears", `{"ref": null}`, true, nil},
		{"empty string clears", `{"ref": ""}`, true, nil},
		{"value binds", `{"ref": "tpl-001"}`, true, strPtr("tpl-001")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(c.body), &p); err != nil {
				t.Fatalf("Unmarshal(%s): %v", c.body, err)
			}
			if p.Ref.Set != c.wantSet {
				t.Errorf("Set = %v, want %v", p.Ref.Set, c.wantSet)
			}
			got := p.Ref.Ref()
			switch {
			case c.wantRef == nil && got != nil:
				t.Errorf("Ref() = %q, want nil", *got)
			case c.wantRef != nil && (got == nil || *got != *c.wantRef):
				t.Errorf("Ref() = %v, want %q", got, *c.wantRef)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
