package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

type providersStore struct {
	*MYSQLStore
}

// Providers returns an object implementing Providers interface
func (ms *MYSQLStore) Providers() dependency.Providers {
	return &providersStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) Create(ctx context.Context, insert *entity.ProviderSignupInsert) (*entity.ProviderSignup, error) {
	query := `
	INSERT INTO
	provider_signup
		(email, business_name, full_name, status, onboarding_step, language)
	VALUES
		(:email, :businessName, :fullName, :status, :onboardingStep, :language)
	`
	params := map[string]any{
		"email":          insert.Email,
		"businessName":   insert.BusinessName,
		"fullName":       sql.NullString{String: insert.FullName, Valid: insert.FullName != ""},
		"status":         string(entity.ProviderStatusPending),
		"onboardingStep": 1,
		"language":       insert.Language,
	}

	_, err := ExecNamedLastId(ctx, ms.DB(), query, params)
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			return nil, gerr.ErrProviderExists
		}
		return nil, fmt.Errorf("failed to add provider signup: %w", err)
	}

	return ms.GetByEmail(ctx, insert.Email)
}

func (ms *MYSQLStore) GetByEmail(ctx context.Context, email string) (*entity.ProviderSignup, error) {
	var ps entity.ProviderSignup
	err := ms.DB().GetContext(ctx, &ps, `SELECT * FROM provider_signup WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider signup: %w", err)
	}
	return &ps, nil
}

// Update applies a sparse patch, building the SET clause only from the
// fields the caller provided.
func (ms *MYSQLStore) Update(ctx context.Context, upd *entity.ProviderSignupUpdate) (*entity.ProviderSignup, error) {
	set := []string{}
	params := map[string]any{"email": upd.Email}

	add := func(column, key string, value any) {
		set = append(set, fmt.Sprintf("%s = :%s", column, key))
		params[key] = value
	}

	if upd.FullName != nil {
		add("full_name", "fullName", *upd.FullName)
	}
	if upd.Address != nil {
		add("address", "address", *upd.Address)
	}
	if upd.City != nil {
		add("city", "city", *upd.City)
	}
	if upd.Province != nil {
		add("province", "province", *upd.Province)
	}
	if upd.PostalCode != nil {
		add("postal_code", "postalCode", *upd.PostalCode)
	}
	if upd.BusinessType != nil {
		add("business_type", "businessType", string(*upd.BusinessType))
	}
	if upd.HourlyRate != nil {
		add("hourly_rate", "hourlyRate", upd.HourlyRate.String())
	}
	if upd.BusinessLicenseURL != nil {
		add("business_license_url", "licenseUrl", *upd.BusinessLicenseURL)
	}
	if upd.BusinessLicenseFileName != nil {
		add("business_license_file_name", "licenseFileName", *upd.BusinessLicenseFileName)
	}
	if upd.Services != nil {
		add("services", "services", *upd.Services)
	}
	if upd.Turnaround != nil {
		add("turnaround", "turnaround", *upd.Turnaround)
	}
	if upd.BannerURL != nil {
		add("banner_url", "bannerUrl", *upd.BannerURL)
	}
	if upd.LogoURL != nil {
		add("logo_url", "logoUrl", *upd.LogoURL)
	}
	if upd.OnboardingStep != nil {
		add("onboarding_step", "onboardingStep", *upd.OnboardingStep)
	}
	if upd.Status != nil {
		add("status", "status", string(*upd.Status))
	}

	if len(set) > 0 {
		query := fmt.Sprintf(`UPDATE provider_signup SET %s WHERE email = :email`, strings.Join(set, ", "))
		if err := ExecNamed(ctx, ms.DB(), query, params); err != nil {
			return nil, fmt.Errorf("failed to update provider signup: %w", err)
		}
	}

	return ms.GetByEmail(ctx, upd.Email)
}

func (ms *MYSQLStore) SetPassword(ctx context.Context, email, pwHash string) error {
	err := ExecNamed(ctx, ms.DB(),
		`UPDATE provider_signup SET password_hash = :hash WHERE email = :email`, map[string]any{
			"email": email,
			"hash":  pwHash,
		})
	if err != nil {
		return fmt.Errorf("failed to set provider password: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) SetVerificationToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	err := ExecNamed(ctx, ms.DB(),
		`UPDATE provider_signup
		SET verification_token = :token, verification_expires_at = :expiresAt
		WHERE email = :email`, map[string]any{
			"email":     email,
			"token":     token,
			"expiresAt": expiresAt,
		})
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}
	return nil
}

// VerifyEmail checks the token against the stored one and marks the signup
// verified. The token is single-use and cleared on success; repeat calls on
// an already verified signup succeed so the mailed link stays clickable.
func (ms *MYSQLStore) VerifyEmail(ctx context.Context, email, token string) error {
	if !ms.InTx() {
		return ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
			return rep.Providers().VerifyEmail(ctx, email, token)
		})
	}

	ps, err := ms.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if ps.EmailVerified {
		return nil
	}
	if !ps.VerificationToken.Valid || ps.VerificationToken.String != token {
		return gerr.ErrVerificationInvalid
	}
	if ps.VerificationExpiresAt.Valid && ms.Now().After(ps.VerificationExpiresAt.Time) {
		return gerr.ErrVerificationExpired
	}

	err = ExecNamed(ctx, ms.DB(),
		`UPDATE provider_signup
		SET email_verified = true, verification_token = NULL, verification_expires_at = NULL
		WHERE email = :email`, map[string]any{
			"email": email,
		})
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}
