package types

import (
	"encoding/json"
	"testing"
)

func TestLooseDecimalAcceptsNumbersAndStrings(t *testing.T) {
	cases := map[string]string{
		`{"price": 1500}`:      "1500",
		`{"price": "1500.50"}`: "1500.5",
		`{"price": " 42 "}`:    "42",
	}
	for body, want := range cases {
		var payload struct {
			Price LooseDecimal `json:"price"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("unexpected error for %s: %v", body, err)
		}
		if !payload.Price.Valid {
			t.Fatalf("expected %s to parse", body)
		}
		if got := payload.Price.Decimal.String(); got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestLooseDecimalTreatsGarbageAsAbsent(t *testing.T) {
	for _, body := range []string{`{"price": "cheap"}`, `{"price": ""}`, `{"price": null}`, `{"price": true}`, `{}`} {
		var payload struct {
			Price LooseDecimal `json:"price"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("unexpected error for %s: %v", body, err)
		}
		if payload.Price.Valid || payload.Price.Ptr() != nil {
			t.Fatalf("expected %s to be absent", body)
		}
	}
}

func TestLooseDecimalMarshal(t *testing.T) {
	var absent LooseDecimal
	out, err := json.Marshal(absent)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "null" {
		t.Fatalf("expected null, got %s", out)
	}
}
