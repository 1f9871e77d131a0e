package form

import (
	"strconv"
	"strings"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// TenantSchema is the Tenant step.
var TenantSchema = Schema{
	{Name: "tenantName", Label: "Tenant name", Kind: KindText, Required: true, MaxLength: 60},
	{Name: "tenantIdentifier", Label: "Tenant identifier", Kind: KindText, Required: true, MaxLength: 50},
	{Name: "environment", Label: "Environment", Kind: KindSelect, Required: true, RequiredMessage: "Please select an environment"},
	{Name: "dataRegion", Label: "Data region", Kind: KindSelect, Required: true, RequiredMessage: "Please select a data region"},
	{Name: "multiCurrency", Label: "Multi-currency", Kind: KindBool},
}

// OrganizationSchema is the Organization step.
var OrganizationSchema = Schema{
	{Name: "organizationName", Label: "Organization name", Kind: KindText, Required: true},
	{Name: "legalEntityName", Label: "Legal entity name", Kind: KindText, Required: true},
	{Name: "registrationNumber", Label: "Registration number", Kind: KindText},
	{Name: "industry", Label: "Industry", Kind: KindSelect, Required: true, RequiredMessage: "Please select an industry"},
	{Name: "numberOfEmployees", Label: "Number of employees", Kind: KindSelect},
	{Name: "annualRevenue", Label: "Annual revenue", Kind: KindRevenue},
	{Name: "country", Label: "Country", Kind: KindSelect, Required: true, RequiredMessage: "Please select a country"},
	{Name: "businessAddress", Label: "Business address", Kind: KindText},
}

// LoginSchema is the login screen.
var LoginSchema = Schema{
	{Name: "email", Label: "Email", Kind: KindEmail, Required: true},
	{Name: "password", Label: "Password", Kind: KindPassword, Required: true},
}

// NewTenantForm starts a Tenant step, optionally prefilled.
func NewTenantForm(initial *domain.TenantData) *StepForm[domain.TenantData] {
	var values Values
	if initial != nil {
		values = Values{
			"tenantName":       initial.TenantName,
			"tenantIdentifier": initial.TenantIdentifier,
			"environment":      initial.Environment,
			"dataRegion":       initial.DataRegion,
			"multiCurrency":    strconv.FormatBool(initial.MultiCurrency),
		}
	}
	return &StepForm[domain.TenantData]{
		Form:  New(domain.StepTenant.String(), TenantSchema, values),
		build: tenantData,
	}
}

func tenantData(v Values) domain.TenantData {
	multi, _ := strconv.ParseBool(v["multiCurrency"])
	return domain.TenantData{
		TenantName:       strings.TrimSpace(v["tenantName"]),
		TenantIdentifier: strings.TrimSpace(v["tenantIdentifier"]),
		Environment:      v["environment"],
		DataRegion:       v["dataRegion"],
		MultiCurrency:    multi,
	}
}

// NewOrganizationForm starts an Organization step, optionally prefilled.
func NewOrganizationForm(initial *domain.OrganizationData) *StepForm[domain.OrganizationData] {
	var values Values
	if initial != nil {
		values = Values{
			"organizationName":   initial.OrganizationName,
			"legalEntityName":    initial.LegalEntityName,
			"registrationNumber": initial.RegistrationNumber,
			"industry":           initial.Industry,
			"numberOfEmployees":  initial.NumberOfEmployees,
			"annualRevenue":      initial.AnnualRevenue,
			"country":            initial.Country,
			"businessAddress":    initial.BusinessAddress,
		}
	}
	return &StepForm[domain.OrganizationData]{
		Form:  New(domain.StepOrganization.String(), OrganizationSchema, values),
		build: organizationData,
	}
}

func organizationData(v Values) domain.OrganizationData {
	return domain.OrganizationData{
		OrganizationName:   strings.TrimSpace(v["organizationName"]),
		LegalEntityName:    strings.TrimSpace(v["legalEntityName"]),
		RegistrationNumber: strings.TrimSpace(v["registrationNumber"]),
		Industry:           v["industry"],
		NumberOfEmployees:  v["numberOfEmployees"],
		AnnualRevenue:      strings.TrimSpace(v["annualRevenue"]),
		Country:            v["country"],
		BusinessAddress:    strings.TrimSpace(v["businessAddress"]),
	}
}

// ValidateLogin checks the login form before any credential lookup.
func ValidateLogin(req domain.LoginRequest) Errors {
	return Validate(LoginSchema, Values{"email": req.Email, "password": req.Password})
}
