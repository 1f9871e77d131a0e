package domain

import "fmt"

// ReferenceKind names one of the read-only lookup tables of the
// FinanceHub API. The value is also the collection path.
type ReferenceKind string

const (
	RefEnvironment   ReferenceKind = "environment"
	RefRegion        ReferenceKind = "region"
	RefIndustry      ReferenceKind = "industry"
	RefCountry       ReferenceKind = "country"
	RefColor         ReferenceKind = "color"
	RefEmployeeRange ReferenceKind = "number-of-employees"
)

// ReferenceKinds lists every known reference table.
var ReferenceKinds = []ReferenceKind{
	RefEnvironment, RefRegion, RefIndustry, RefCountry, RefColor, RefEmployeeRange,
}

// ParseReferenceKind rejects anything that is not a known table.
func ParseReferenceKind(raw string) (ReferenceKind, error) {
	for _, k := range ReferenceKinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", &ErrValidation{Field: "kind", Message: fmt.Sprintf("unknown reference table %q", raw)}
}

// ReferenceItem is one row of a reference table. Hex is only set for colors.
type ReferenceItem struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// Lookup maps reference ids to display names.
type Lookup map[string]string

// NewLookup indexes a reference table once per fetch.
func NewLookup(items []ReferenceItem) Lookup {
	l := make(Lookup, len(items))
	for _, it := range items {
		l[string(it.ID)] = it.Name
	}
	return l
}

// Name resolves id, falling back to the raw id when it is not in the table.
func (l Lookup) Name(id string) string {
	if name, ok := l[id]; ok && name != "" {
		return name
	}
	return id
}

// Resolve returns both the id and its display name.
func (l Lookup) Resolve(id string) RefValue {
	return RefValue{ID: id, Name: l.Name(id)}
}

// RefValue is a resolved reference id.
type RefValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
