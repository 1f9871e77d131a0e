package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

func TestParseStep(t *testing.T) {
	cases := map[string]domain.Step{
		"tenant":       domain.StepTenant,
		"Organization": domain.StepOrganization,
		"3":            domain.StepLabels,
	}
	for in, want := range cases {
		got, err := domain.ParseStep(in)
		if err != nil {
			t.Fatalf("ParseStep(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseStep(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"", "0", "4", "billing"} {
		if _, err := domain.ParseStep(bad); err == nil {
			t.Errorf("ParseStep(%q): expected error", bad)
		}
	}
}

func TestStepNext(t *testing.T) {
	if next, ok := domain.StepTenant.Next(); !ok || next != domain.StepOrganization {
		t.Errorf("tenant.Next() = %v, %v", next, ok)
	}
	if _, ok := domain.StepLabels.Next(); ok {
		t.Error("labels should be the last step")
	}
}

func TestSection_JSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(domain.Open(domain.StepOrganization))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"state":"open","step":2}` {
		t.Errorf("unexpected json: %s", b)
	}

	b, _ = json.Marshal(domain.Closed())
	if string(b) != `{"state":"closed"}` {
		t.Errorf("unexpected json: %s", b)
	}

	var s domain.Section
	if err := json.Unmarshal([]byte(`{"state":"open","step":5}`), &s); err == nil {
		t.Error("expected error for out-of-range step")
	}
}

func TestID_DecodesNumbersAndStrings(t *testing.T) {
	var rows []struct {
		ID domain.ID `json:"id"`
	}
	if err := json.Unmarshal([]byte(`[{"id":7},{"id":"abc"},{"id":null}]`), &rows); err != nil {
		t.Fatal(err)
	}
	if rows[0].ID != "7" || rows[1].ID != "abc" || rows[2].ID != "" {
		t.Errorf("unexpected ids: %+v", rows)
	}
}

func TestLookup_FallsBackToRawID(t *testing.T) {
	l := domain.NewLookup([]domain.ReferenceItem{
		{ID: "us", Name: "United States"},
		{ID: "blank", Name: ""},
	})

	if got := l.Name("us"); got != "United States" {
		t.Errorf("expected 'United States', got %q", got)
	}
	if got := l.Name("br"); got != "br" {
		t.Errorf("expected raw id fallback 'br', got %q", got)
	}
	if got := l.Name("blank"); got != "blank" {
		t.Errorf("expected raw id for empty name, got %q", got)
	}

	var empty domain.Lookup
	if got := empty.Name("x"); got != "x" {
		t.Errorf("nil lookup should fall back, got %q", got)
	}
}

func TestErrInvalidCredentials_DoesNotRevealField(t *testing.T) {
	fields := (&domain.ErrInvalidCredentials{}).Fields()
	if fields["email"] != fields["password"] {
		t.Errorf("expected identical messages, got %+v", fields)
	}
}
