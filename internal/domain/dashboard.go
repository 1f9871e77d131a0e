package domain

import "time"

// Dashboard states.
const (
	DashboardReady                = "ready"
	DashboardOnboardingIncomplete = "onboarding_incomplete"
)

// DashboardView is returned by GET /v1/dashboard.
type DashboardView struct {
	State           string                `json:"state"`
	Next            string                `json:"next,omitempty"`
	User            Session               `json:"user"`
	SubmissionCount int                   `json:"submissionCount"`
	SelectedIndex   int                   `json:"selectedIndex"`
	Organizations   []OrganizationSummary `json:"organizations,omitempty"`
	Current         *ResolvedSubmission   `json:"current,omitempty"`
}

// OrganizationSummary is one entry of the organization switcher.
type OrganizationSummary struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Initial  string `json:"initial"`
	Industry string `json:"industry"`
	Selected bool   `json:"selected"`
}

// ResolvedSubmission is a submission with every reference id resolved.
type ResolvedSubmission struct {
	ID           ID                   `json:"id,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	Tenant       ResolvedTenant       `json:"tenant"`
	Organization ResolvedOrganization `json:"organization"`
	Labels       []Label              `json:"labels"`
	LabelCount   int                  `json:"labelCount"`
}

// ResolvedTenant is TenantData with display names.
type ResolvedTenant struct {
	TenantName       string   `json:"tenantName"`
	TenantIdentifier string   `json:"tenantIdentifier"`
	Environment      RefValue `json:"environment"`
	DataRegion       RefValue `json:"dataRegion"`
	MultiCurrency    bool     `json:"multiCurrency"`
}

// ResolvedOrganization is OrganizationData with display names.
type ResolvedOrganization struct {
	OrganizationName   string   `json:"organizationName"`
	LegalEntityName    string   `json:"legalEntityName"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
	Industry           RefValue `json:"industry"`
	NumberOfEmployees  RefValue `json:"numberOfEmployees"`
	AnnualRevenue      string   `json:"annualRevenue,omitempty"`
	Country            RefValue `json:"country"`
	BusinessAddress    string   `json:"businessAddress,omitempty"`
}
