package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

func TestProviders_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ps := db.Providers()

	ctx := context.Background()

	created, err := ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		FullName:     "Jane Smith",
		Language:     "en",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProviderStatusPending, created.Status)
	assert.Equal(t, 1, created.OnboardingStep)
	assert.False(t, created.PasswordHash.Valid)

	_, err = ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
	})
	assert.ErrorIs(t, err, gerr.ErrProviderExists)

	_, err = ps.GetByEmail(ctx, "missing@mail.test")
	assert.ErrorIs(t, err, gerr.ErrProviderNotFound)
}

func TestProviders_Update(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ps := db.Providers()

	ctx := context.Background()

	_, err := ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		Language:     "en",
	})
	require.NoError(t, err)

	address := "55 Rue King"
	city := "Sherbrooke"
	rate := decimal.NewFromInt(95)
	step := 2
	updated, err := ps.Update(ctx, &entity.ProviderSignupUpdate{
		Email:          "shop@mail.test",
		Address:        &address,
		City:           &city,
		HourlyRate:     &rate,
		OnboardingStep: &step,
	})
	require.NoError(t, err)
	assert.Equal(t, "55 Rue King", updated.Address.String)
	assert.Equal(t, "Sherbrooke", updated.City.String)
	assert.True(t, updated.HourlyRate.Decimal.Equal(rate))
	assert.Equal(t, 2, updated.OnboardingStep)

	// untouched fields survive a sparse update
	province := "QC"
	updated, err = ps.Update(ctx, &entity.ProviderSignupUpdate{
		Email:    "shop@mail.test",
		Province: &province,
	})
	require.NoError(t, err)
	assert.Equal(t, "55 Rue King", updated.Address.String)
	assert.Equal(t, "QC", updated.Province.String)
}

func TestProviders_PasswordAndVerification(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ps := db.Providers()

	ctx := context.Background()

	_, err := ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		Language:     "en",
	})
	require.NoError(t, err)

	require.NoError(t, ps.SetPassword(ctx, "shop@mail.test", "salt$hash"))
	got, err := ps.GetByEmail(ctx, "shop@mail.test")
	require.NoError(t, err)
	assert.Equal(t, "salt$hash", got.PasswordHash.String)

	require.NoError(t, ps.SetVerificationToken(ctx, "shop@mail.test", "tok123", time.Now().Add(time.Hour)))

	assert.ErrorIs(t, ps.VerifyEmail(ctx, "shop@mail.test", "wrong"), gerr.ErrVerificationInvalid)

	require.NoError(t, ps.VerifyEmail(ctx, "shop@mail.test", "tok123"))
	got, err = ps.GetByEmail(ctx, "shop@mail.test")
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.False(t, got.VerificationToken.Valid)

	// a second click of the same mailed link keeps succeeding
	require.NoError(t, ps.VerifyEmail(ctx, "shop@mail.test", "tok123"))

	// but an unverified signup with no token still rejects
	_, err = ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "other@mail.test",
		BusinessName: "Other Auto",
		Language:     "en",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, ps.VerifyEmail(ctx, "other@mail.test", "tok123"), gerr.ErrVerificationInvalid)
}

func TestProviders_VerifyExpiredToken(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ps := db.Providers()

	ctx := context.Background()

	_, err := ps.Create(ctx, &entity.ProviderSignupInsert{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		Language:     "en",
	})
	require.NoError(t, err)

	require.NoError(t, ps.SetVerificationToken(ctx, "shop@mail.test", "tok123", time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, ps.VerifyEmail(ctx, "shop@mail.test", "tok123"), gerr.ErrVerificationExpired)
}
