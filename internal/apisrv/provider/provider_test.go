package provider

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"github.com/peepeep/peepeep-manager/internal/apisrv/apitest"
	"github.com/peepeep/peepeep-manager/internal/auth/jwt"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

func newTestServer(t *testing.T) (*Server, *apitest.Repository, *apitest.Mailer) {
	repo := apitest.NewRepository()
	mailer := &apitest.Mailer{}
	srv, err := New(&Config{
		PublicURL:                "https://peepeep.com",
		JWTSecret:                "test-secret",
		JWTTTL:                   "60m",
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 10000,
		GoogleClientID:           "client-id.apps.googleusercontent.com",
	}, repo, mailer, &apitest.FileStore{})
	require.NoError(t, err)
	return srv, repo, mailer
}

func createSignup(t *testing.T, srv *Server) string {
	_, err := srv.Create(context.Background(), &CreateRequest{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		FullName:     "Jane Smith",
		Language:     "en",
	})
	require.NoError(t, err)
	return "shop@mail.test"
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestCreate(t *testing.T) {
	srv, _, mailer := newTestServer(t)
	ctx := context.Background()

	p, err := srv.Create(ctx, &CreateRequest{
		Email:        "Shop@Mail.Test",
		BusinessName: "Midtown Auto",
		FullName:     "Jane Smith",
		Language:     "fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "shop@mail.test", p.Email)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, 1, p.OnboardingStep)
	assert.Equal(t, "JS", p.Initials)
	assert.False(t, p.Claimed)

	require.Len(t, mailer.Verifications, 1)
	assert.Equal(t, "shop@mail.test", mailer.Verifications[0].To)
	assert.Contains(t, mailer.Verifications[0].URL, "https://peepeep.com/verify-email?email=shop@mail.test&token=")
	assert.Equal(t, "fr", mailer.Verifications[0].Lang)

	_, err = srv.Create(ctx, &CreateRequest{Email: "shop@mail.test", BusinessName: "Other"})
	assert.ErrorIs(t, err, gerr.ErrProviderExists)

	_, err = srv.Create(ctx, &CreateRequest{Email: "bad", BusinessName: "x"})
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	_, err = srv.Create(ctx, &CreateRequest{Email: "ok@mail.test"})
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))
}

func TestCreateWithPassword(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()

	_, err := srv.Create(ctx, &CreateRequest{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		Password:     strp("short"),
	})
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	p, err := srv.Create(ctx, &CreateRequest{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		FullName:     "Jane Smith",
		Password:     strp("hunter22hunter22"),
	})
	require.NoError(t, err)
	assert.True(t, p.Claimed)

	// the account is born claimed, no claim step needed
	resp, err := srv.Login(ctx, "shop@mail.test", "hunter22hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AuthToken)
}

func TestLoginWithGoogle(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	ctx := context.Background()

	srv.googleVerify = func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
		if idToken != "good-token" {
			return nil, errors.New("bad token")
		}
		return &idtoken.Payload{Claims: map[string]any{
			"email":  "Shop@Mail.Test",
			"name":   "Jane Smith",
			"locale": "fr",
		}}, nil
	}

	_, err := srv.LoginWithGoogle(ctx, "garbage")
	assert.Equal(t, gerr.CodeInvalidCredentials, gerr.CodeOf(err))

	// an unknown email auto-creates the signup from the token claims
	resp, err := srv.LoginWithGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AuthToken)
	assert.Equal(t, "shop@mail.test", resp.Profile.Email)
	assert.Equal(t, "Jane Smith", resp.Profile.BusinessName)

	ps, err := repo.GetByEmail(ctx, "shop@mail.test")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", ps.FullName.String)
	assert.Equal(t, "fr", ps.Language)

	// a second login reuses the existing record
	resp, err = srv.LoginWithGoogle(ctx, "good-token")
	require.NoError(t, err)
	assert.Equal(t, "shop@mail.test", resp.Profile.Email)
}

func TestWizardProgress(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	// step 1 -> 2 with location data
	p, err := srv.Update(ctx, email, &UpdateRequest{
		Address:        strp("55 Rue King"),
		City:           strp("Sherbrooke"),
		Province:       strp("QC"),
		PostalCode:     strp("J1H 1P5"),
		OnboardingStep: intp(2),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.OnboardingStep)

	// skipping ahead is rejected
	_, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(4)}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	// step 2 -> 3 with business type
	p, err = srv.Update(ctx, email, &UpdateRequest{
		BusinessType:   strp("shop"),
		OnboardingStep: intp(3),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, p.OnboardingStep)

	// going back never validates
	p, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(2)}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.OnboardingStep)

	p, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(3)}, false)
	require.NoError(t, err)

	// step 3 -> 4 needs rates and services
	_, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(4)}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	p, err = srv.Update(ctx, email, &UpdateRequest{
		HourlyRate:     strp("$95/hr"),
		Services:       []string{"oil_change", "brakes"},
		OnboardingStep: intp(4),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 4, p.OnboardingStep)
	assert.Equal(t, "$95/hr", p.HourlyRateLabel)

	// finishing requires the license upload
	_, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(5)}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	_, err = srv.UploadLicense(ctx, email, strings.NewReader("%PDF-1.4"), 8, "license.pdf", "application/pdf")
	require.NoError(t, err)

	p, err = srv.Update(ctx, email, &UpdateRequest{OnboardingStep: intp(5)}, false)
	require.NoError(t, err)
	assert.Equal(t, "pending_review", p.Status)
	assert.Equal(t, 4, p.OnboardingStep)
}

func TestUpdateValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	_, err := srv.Update(ctx, email, &UpdateRequest{BusinessType: strp("bakery")}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	_, err = srv.Update(ctx, email, &UpdateRequest{HourlyRate: strp("-5")}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	_, err = srv.Update(ctx, "missing@mail.test", &UpdateRequest{}, false)
	assert.ErrorIs(t, err, gerr.ErrProviderNotFound)
}

func TestClaimAndLogin(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	// login before claiming flags the account as unclaimed
	_, err := srv.Login(ctx, email, "whatever1")
	assert.ErrorIs(t, err, gerr.ErrAccountNotClaimed)

	// weak password rejected
	_, err = srv.Update(ctx, email, &UpdateRequest{Password: strp("short")}, false)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	// claim the account
	p, err := srv.Update(ctx, email, &UpdateRequest{Password: strp("hunter22hunter22")}, false)
	require.NoError(t, err)
	assert.True(t, p.Claimed)

	// once claimed, unauthenticated edits are rejected
	_, err = srv.Update(ctx, email, &UpdateRequest{FullName: strp("Someone Else")}, false)
	assert.Equal(t, gerr.CodeUnauthorized, gerr.CodeOf(err))

	// but authenticated edits pass
	_, err = srv.Update(ctx, email, &UpdateRequest{FullName: strp("Jane A Smith")}, true)
	require.NoError(t, err)

	resp, err := srv.Login(ctx, email, "hunter22hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AuthToken)
	assert.Equal(t, email, resp.Profile.Email)

	sub, err := jwt.VerifyToken(srv.JwtAuth, resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, email, sub)

	_, err = srv.Login(ctx, email, "wrong password")
	assert.ErrorIs(t, err, gerr.ErrInvalidCredentials)

	_, err = srv.Login(ctx, "missing@mail.test", "whatever1")
	assert.ErrorIs(t, err, gerr.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	srv, repo, mailer := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	require.Len(t, mailer.Verifications, 1)
	url := mailer.Verifications[0].URL
	token := url[strings.LastIndex(url, "token=")+len("token="):]

	assert.ErrorIs(t, srv.VerifyEmail(ctx, email, "wrong"), gerr.ErrVerificationInvalid)
	require.NoError(t, srv.VerifyEmail(ctx, email, token))

	ps, err := repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.True(t, ps.EmailVerified)

	// clicking the mailed link again keeps succeeding
	require.NoError(t, srv.VerifyEmail(ctx, email, token))
}

func TestUploads(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	up, err := srv.UploadLicense(ctx, email, strings.NewReader("%PDF-1.4"), 8, "license.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, up.URL, "licenses/")

	p, err := srv.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, up.URL, p.LicenseURL)
	assert.Equal(t, "license.pdf", p.LicenseFileName)

	img, err := srv.UploadImage(ctx, email, "banner", strings.NewReader("fake"), "image/jpeg")
	require.NoError(t, err)
	p, err = srv.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, img.FullSize, p.BannerURL)

	_, err = srv.UploadImage(ctx, email, "poster", strings.NewReader("fake"), "image/jpeg")
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))
}

func TestBadge(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	email := createSignup(t, srv)

	_, err := srv.Update(ctx, email, &UpdateRequest{
		City:       strp("Sherbrooke"),
		Province:   strp("QC"),
		HourlyRate: strp("95"),
	}, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, srv.Badge(ctx, email, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Positive(t, img.Bounds().Dx())

	assert.ErrorIs(t, srv.Badge(ctx, "missing@mail.test", &buf), gerr.ErrProviderNotFound)
}

func TestStatusValues(t *testing.T) {
	assert.True(t, entity.BusinessType("mobile").Valid())
	assert.False(t, entity.BusinessType("bakery").Valid())
}
