package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Onboarding steps
// ============================================================

// Step identifies one accordion section of the onboarding wizard.
type Step int

const (
	StepTenant       Step = 1
	StepOrganization Step = 2
	StepLabels       Step = 3
)

// Steps lists every step in wizard order.
var Steps = []Step{StepTenant, StepOrganization, StepLabels}

func (s Step) String() string {
	switch s {
	case StepTenant:
		return "tenant"
	case StepOrganization:
		return "organization"
	case StepLabels:
		return "labels"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the three wizard steps.
func (s Step) Valid() bool {
	return s >= StepTenant && s <= StepLabels
}

// Next returns the step after s, or false for the last one.
func (s Step) Next() (Step, bool) {
	if s >= StepLabels {
		return 0, false
	}
	return s + 1, true
}

// ParseStep accepts either the step name ("tenant") or its number ("1").
func ParseStep(raw string) (Step, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range Steps {
		if v == s.String() {
			return s, nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && Step(n).Valid() {
		return Step(n), nil
	}
	return 0, &ErrValidation{Field: "step", Message: fmt.Sprintf("unknown step %q", raw)}
}

// ============================================================
// Step data
// ============================================================

// TenantData is produced by a successful Tenant step.
type TenantData struct {
	TenantName       string `json:"tenantName"`
	TenantIdentifier string `json:"tenantIdentifier"`
	Environment      string `json:"environment"`
	DataRegion       string `json:"dataRegion"`
	MultiCurrency    bool   `json:"multiCurrency"`
}

// OrganizationData is produced by a successful Organization step.
type OrganizationData struct {
	OrganizationName   string `json:"organizationName"`
	LegalEntityName    string `json:"legalEntityName"`
	RegistrationNumber string `json:"registrationNumber"`
	Industry           string `json:"industry"`
	NumberOfEmployees  string `json:"numberOfEmployees"`
	AnnualRevenue      string `json:"annualRevenue"`
	Country            string `json:"country"`
	BusinessAddress    string `json:"businessAddress"`
}

// Label is a user-defined tag with a hex color.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LabelsData is produced by the Labels step; it may hold zero labels.
type LabelsData struct {
	Labels []Label `json:"labels"`
}

// DefaultLabels seeds a fresh Labels step.
func DefaultLabels() []Label {
	return []Label{
		{ID: "1", Name: "High Priority", Color: "#EF4444"},
		{ID: "2", Name: "Revenue", Color: "#10B981"},
		{ID: "3", Name: "Expense", Color: "#F59E0B"},
	}
}

// Submission is the aggregate record posted once all steps are complete.
type Submission struct {
	ID           ID               `json:"id,omitempty"`
	UserID       ID               `json:"userId"`
	CreatedAt    time.Time        `json:"createdAt"`
	Tenant       TenantData       `json:"tenant"`
	Organization OrganizationData `json:"organization"`
	Labels       []Label          `json:"labels"`
}

// ============================================================
// Form & wizard views
// ============================================================

// FormStatus is the lifecycle of a single step form.
type FormStatus string

const (
	FormUntouched FormStatus = "untouched"
	FormEditing   FormStatus = "editing"
	FormInvalid   FormStatus = "invalid"
	FormValid     FormStatus = "valid"
)

// FormState is the renderable state of a step form. Errors only holds
// messages for touched fields.
type FormState struct {
	Status    FormStatus        `json:"status"`
	Values    map[string]string `json:"values"`
	Touched   map[string]bool   `json:"touched"`
	Errors    map[string]string `json:"errors"`
	Valid     map[string]bool   `json:"valid"`
	FormValid bool              `json:"formValid"`
}

// LabelsState is the renderable state of the Labels step.
type LabelsState struct {
	Labels []Label           `json:"labels"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OnboardingView is returned by GET /v1/onboarding.
type OnboardingView struct {
	OpenStep     Section     `json:"openStep"`
	Completed    []Step      `json:"completedSteps"`
	Progress     string      `json:"progress"`
	Submitting   bool        `json:"submitting"`
	Complete     bool        `json:"complete"`
	Next         string      `json:"next,omitempty"`
	Tenant       FormState   `json:"tenant"`
	Organization FormState   `json:"organization"`
	Labels       LabelsState `json:"labels"`
	Submission   *Submission `json:"submission,omitempty"`
}
