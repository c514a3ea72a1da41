package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BusinessType enumerates the kinds of provider businesses.
type BusinessType string

const (
	BusinessTypeShop       BusinessType = "shop"
	BusinessTypeMobile     BusinessType = "mobile"
	BusinessTypeGarage     BusinessType = "garage"
	BusinessTypeDealership BusinessType = "dealership"
	BusinessTypeSpecialty  BusinessType = "specialty"
)

// ValidBusinessTypes lists every accepted business type value.
var ValidBusinessTypes = []BusinessType{
	BusinessTypeShop,
	BusinessTypeMobile,
	BusinessTypeGarage,
	BusinessTypeDealership,
	BusinessTypeSpecialty,
}

func (bt BusinessType) Valid() bool {
	for _, v := range ValidBusinessTypes {
		if bt == v {
			return true
		}
	}
	return false
}

// ProviderStatus tracks where a signup sits in the onboarding funnel.
type ProviderStatus string

const (
	ProviderStatusPending       ProviderStatus = "pending"
	ProviderStatusPendingReview ProviderStatus = "pending_review"
	ProviderStatusApproved      ProviderStatus = "approved"
)

// ProviderSignup represents a provider (mechanic shop) onboarding record.
type ProviderSignup struct {
	Id                      int                 `db:"id"`
	Email                   string              `db:"email"`
	BusinessName            string              `db:"business_name"`
	FullName                sql.NullString      `db:"full_name"`
	PasswordHash            sql.NullString      `db:"password_hash"`
	Address                 sql.NullString      `db:"address"`
	City                    sql.NullString      `db:"city"`
	Province                sql.NullString      `db:"province"`
	PostalCode              sql.NullString      `db:"postal_code"`
	BusinessType            sql.NullString      `db:"business_type"`
	HourlyRate              decimal.NullDecimal `db:"hourly_rate"`
	BusinessLicenseURL      sql.NullString      `db:"business_license_url"`
	BusinessLicenseFileName sql.NullString      `db:"business_license_file_name"`
	Services                sql.NullString      `db:"services"`
	Turnaround              sql.NullString      `db:"turnaround"`
	BannerURL               sql.NullString      `db:"banner_url"`
	LogoURL                 sql.NullString      `db:"logo_url"`
	Status                  ProviderStatus      `db:"status"`
	OnboardingStep          int                 `db:"onboarding_step"`
	Language                string              `db:"language"`
	EmailVerified           bool                `db:"email_verified"`
	VerificationToken       sql.NullString      `db:"verification_token"`
	VerificationExpiresAt   sql.NullTime        `db:"verification_expires_at"`
	CreatedAt               time.Time           `db:"created_at"`
	UpdatedAt               time.Time           `db:"updated_at"`
}

// ProviderSignupInsert carries the fields of the initial signup modal.
type ProviderSignupInsert struct {
	Email        string
	BusinessName string
	FullName     string
	Language     string
}

// ProviderSignupUpdate is a sparse patch: nil fields are left untouched.
// It covers both the onboarding wizard payload and profile edits.
type ProviderSignupUpdate struct {
	Email                   string
	FullName                *string
	Address                 *string
	City                    *string
	Province                *string
	PostalCode              *string
	BusinessType            *BusinessType
	HourlyRate              *decimal.Decimal
	BusinessLicenseURL      *string
	BusinessLicenseFileName *string
	Services                *string
	Turnaround              *string
	BannerURL               *string
	LogoURL                 *string
	OnboardingStep          *int
	Status                  *ProviderStatus
}
