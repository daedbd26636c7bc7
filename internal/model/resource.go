package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the four tracked life-support resources.
type Kind int

const (
	Oxygen Kind = iota
	Water
	Food
	Energy

	// KindCount is the number of tracked resources.
	KindCount = 4
)

// Kinds lists every resource in canonical order.
var Kinds = [KindCount]Kind{Oxygen, Water, Food, Energy}

var kindNames = [KindCount]string{"OXYGEN", "WATER", "FOOD", "ENERGY"}

// ErrUnknownKind is returned for resource names outside the fixed set.
var ErrUnknownKind = errors.New("unknown resource kind")

func (k Kind) String() string {
	if k < 0 || int(k) >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a wire name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Stock is the quantity on hand for each resource.
type Stock [KindCount]int64

// Demand is the amount of each resource requested for one day.
type Demand [KindCount]int64

// Report records, per resource, whether that day's demand was met.
type Report [KindCount]bool

// Map returns the stock keyed by wire name.
func (s Stock) Map() map[string]int64 {
	out := make(map[string]int64, KindCount)
	for _, k := range Kinds {
		out[k.String()] = s[k]
	}
	return out
}

func (s Stock) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func (s *Stock) UnmarshalJSON(data []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return decodeByKind(raw, (*[KindCount]int64)(s))
}

func (d *Demand) UnmarshalJSON(data []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return decodeByKind(raw, (*[KindCount]int64)(d))
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return decodeByKind(raw, (*[KindCount]bool)(r))
}

// decodeByKind fills dst from a map keyed by wire name; every kind must be
// present exactly once.
func decodeByKind[T any](raw map[string]T, dst *[KindCount]T) error {
	var out [KindCount]T
	var seen [KindCount]bool
	for name, v := range raw {
		k, err := ParseKind(name)
		if err != nil {
			return err
		}
		if seen[k] {
			return fmt.Errorf("duplicate resource kind %s", k)
		}
		out[k] = v
		seen[k] = true
	}
	for _, k := range Kinds {
		if !seen[k] {
			return fmt.Errorf("missing resource kind %s", k)
		}
	}
	*dst = out
	return nil
}

func (d Demand) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, KindCount)
	for _, k := range Kinds {
		out[k.String()] = d[k]
	}
	return json.Marshal(out)
}

func (r Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]bool, KindCount)
	for _, k := range Kinds {
		out[k.String()] = r[k]
	}
	return json.Marshal(out)
}

// AllMet reports whether every resource demand was satisfied.
func (r Report) AllMet() bool {
	for _, ok := range r {
		if !ok {
			return false
		}
	}
	return true
}

// Shortages returns the kinds whose demand was not met, in canonical order.
func (r Report) Shortages() []Kind {
	var out []Kind
	for _, k := range Kinds {
		if !r[k] {
			out = append(out, k)
		}
	}
	return out
}
