package dto

import (
	"github.com/peepeep/peepeep-manager/internal/entity"
)

// ProviderProfile is the provider signup as the API serves it. The
// password hash and verification token never leave the server.
type ProviderProfile struct {
	Id              int      `json:"id"`
	Email           string   `json:"email"`
	BusinessName    string   `json:"businessName"`
	FullName        string   `json:"fullName,omitempty"`
	Initials        string   `json:"initials,omitempty"`
	Address         string   `json:"address,omitempty"`
	City            string   `json:"city,omitempty"`
	Province        string   `json:"province,omitempty"`
	PostalCode      string   `json:"postalCode,omitempty"`
	Location        string   `json:"location,omitempty"`
	BusinessType    string   `json:"businessType,omitempty"`
	HourlyRate      string   `json:"hourlyRate,omitempty"`
	HourlyRateLabel string   `json:"hourlyRateLabel,omitempty"`
	LicenseURL      string   `json:"licenseUrl,omitempty"`
	LicenseFileName string   `json:"licenseFileName,omitempty"`
	Services        []string `json:"services,omitempty"`
	Turnaround      string   `json:"turnaround,omitempty"`
	BannerURL       string   `json:"bannerUrl,omitempty"`
	LogoURL         string   `json:"logoUrl,omitempty"`
	Status          string   `json:"status"`
	OnboardingStep  int      `json:"onboardingStep"`
	Language        string   `json:"language"`
	EmailVerified   bool     `json:"emailVerified"`
	Claimed         bool     `json:"claimed"`
}

// ConvertProviderSignup builds the API profile from a storage row.
func ConvertProviderSignup(ps *entity.ProviderSignup) *ProviderProfile {
	p := &ProviderProfile{
		Id:              ps.Id,
		Email:           ps.Email,
		BusinessName:    ps.BusinessName,
		FullName:        ps.FullName.String,
		Address:         ps.Address.String,
		City:            ps.City.String,
		Province:        ps.Province.String,
		PostalCode:      ps.PostalCode.String,
		BusinessType:    ps.BusinessType.String,
		LicenseURL:      ps.BusinessLicenseURL.String,
		LicenseFileName: ps.BusinessLicenseFileName.String,
		Services:        SplitServices(ps.Services.String),
		Turnaround:      ps.Turnaround.String,
		BannerURL:       ps.BannerURL.String,
		LogoURL:         ps.LogoURL.String,
		Status:          string(ps.Status),
		OnboardingStep:  ps.OnboardingStep,
		Language:        ps.Language,
		EmailVerified:   ps.EmailVerified,
		Claimed:         ps.PasswordHash.Valid,
	}
	if name := ps.FullName.String; name != "" {
		p.Initials = Initials(name)
	} else {
		p.Initials = Initials(ps.BusinessName)
	}
	p.Location = JoinLocation(ps.Address.String, ps.City.String, ps.Province.String, ps.PostalCode.String)
	if ps.HourlyRate.Valid {
		p.HourlyRate = ps.HourlyRate.Decimal.String()
		p.HourlyRateLabel = FormatRate(ps.HourlyRate.Decimal)
	}
	return p
}
