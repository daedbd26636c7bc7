package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"OXYGEN", Oxygen},
		{"water", Water},
		{" Food ", Food},
		{"ENERGY", Energy},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseKind("NITROGEN"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func validRaw() map[string]any {
	return map[string]any{"OXYGEN": 100, "WATER": 100, "FOOD": 100, "ENERGY": 100}
}

func TestParseStock_Valid(t *testing.T) {
	raw := map[string]any{"OXYGEN": 1, "WATER": int64(2), "FOOD": 3.0, "ENERGY": uint64(4)}
	s, err := ParseStock(raw)
	if err != nil {
		t.Fatalf("ParseStock: %v", err)
	}
	if s != (Stock{1, 2, 3, 4}) {
		t.Errorf("got %v", s)
	}
}

func TestParseStock_TypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"text", "100"},
		{"absent", nil},
		{"list", []any{1, 2}},
		{"mapping", map[string]any{"amount": 100}},
		{"tuple", [2]int{1, 2}},
		{"bool", true},
	}
	for _, tt := range tests {
		for _, k := range Kinds {
			raw := validRaw()
			raw[k.String()] = tt.value

			_, err := ParseStock(raw)
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("%s in %s: expected ErrTypeMismatch, got %v", tt.name, k, err)
				continue
			}
			var tm *TypeMismatchError
			if !errors.As(err, &tm) || tm.Kind != k {
				t.Errorf("%s in %s: expected TypeMismatchError for %s, got %v", tt.name, k, k, err)
			}
		}
	}
}

func TestParseStock_MissingKind(t *testing.T) {
	raw := validRaw()
	delete(raw, "FOOD")
	_, err := ParseStock(raw)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) || tm.Kind != Food {
		t.Errorf("expected absent FOOD, got %v", err)
	}
}

func TestParseStock_Rejects(t *testing.T) {
	raw := validRaw()
	raw["WATER"] = 1.5
	if _, err := ParseStock(raw); !errors.Is(err, ErrNotWhole) {
		t.Errorf("fractional: expected ErrNotWhole, got %v", err)
	}

	raw = validRaw()
	raw["HELIUM"] = 3
	if _, err := ParseStock(raw); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown key: expected ErrUnknownKind, got %v", err)
	}
}

func TestStockJSON(t *testing.T) {
	in := Stock{99, 91, 102, 109}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var byName map[string]int64
	if err := json.Unmarshal(data, &byName); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if byName["WATER"] != 91 || byName["ENERGY"] != 109 {
		t.Errorf("unexpected encoding %s", data)
	}

	var out Stock
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("got %v, want %v", out, in)
	}

	if err := json.Unmarshal([]byte(`{"OXYGEN":1}`), &out); err == nil {
		t.Error("expected error for partial stock")
	}
}

func TestReportShortages(t *testing.T) {
	r := Report{true, false, true, false}
	got := r.Shortages()
	if len(got) != 2 || got[0] != Water || got[1] != Energy {
		t.Errorf("Shortages() = %v", got)
	}
	if r.AllMet() {
		t.Error("AllMet should be false")
	}
	if !(Report{true, true, true, true}).AllMet() {
		t.Error("AllMet should be true")
	}
}
