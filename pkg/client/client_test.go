package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/peepeep/peepeep-manager/internal/api/http"
	"github.com/peepeep/peepeep-manager/internal/apisrv/apitest"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
)

func newTestAPI(t *testing.T) (*Client, *apitest.Mailer) {
	repo := apitest.NewRepository()
	mailer := &apitest.Mailer{}

	ws := waitlist.New(&waitlist.Config{
		PublicURL:     "https://peepeep.com",
		ReferralBoost: 1,
	}, repo, mailer)

	ps, err := provider.New(&provider.Config{
		PublicURL:                "https://peepeep.com",
		JWTSecret:                "test-secret",
		JWTTTL:                   "60m",
		PasswordHasherSaltSize:   16,
		PasswordHasherIterations: 10000,
		GoogleClientID:           "client-id.apps.googleusercontent.com",
	}, repo, mailer, &apitest.FileStore{})
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.New(&httpapi.Config{}).Handler(ws, ps))
	t.Cleanup(srv.Close)
	return New(srv.URL), mailer
}

func TestWaitlistRoundTrip(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	signup, err := c.WaitlistSignup(ctx, &waitlist.SignupRequest{
		Email:        "jane@mail.test",
		Name:         "Jane Driver",
		VehicleYear:  time.Now().Year(),
		VehicleMake:  "Honda",
		VehicleModel: "Civic",
	})
	require.NoError(t, err)
	assert.Len(t, signup.ReferralCode, 8)

	status, err := c.WaitlistStatus(ctx, signup.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Position)
	assert.Contains(t, status.ReferralURL, signup.ReferralCode)

	require.NoError(t, c.TrackReferral(ctx, signup.ReferralCode, "friend@mail.test"))

	_, err = c.WaitlistStatus(ctx, "missing1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, 404, apiErr.Status)
}

func TestCatalogRoundTrip(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	makes, err := c.CatalogMakes(ctx, "hon")
	require.NoError(t, err)
	require.NotEmpty(t, makes)
	assert.Equal(t, "Honda", makes[0].Value)

	models, err := c.CatalogModels(ctx, "Honda", "")
	require.NoError(t, err)
	assert.NotEmpty(t, models)

	years, err := c.CatalogYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Year(), years[0])
}

func TestProviderRoundTrip(t *testing.T) {
	c, mailer := newTestAPI(t)
	ctx := context.Background()

	p, err := c.ProviderCreate(ctx, &provider.CreateRequest{
		Email:        "shop@mail.test",
		BusinessName: "Midtown Auto",
		FullName:     "Jane Smith",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", p.Status)

	pw := "hunter22hunter22"
	p, err = c.ProviderUpdate(ctx, p.Email, &provider.UpdateRequest{Password: &pw})
	require.NoError(t, err)
	assert.True(t, p.Claimed)

	login, err := c.Login(ctx, p.Email, pw)
	require.NoError(t, err)
	assert.NotEmpty(t, login.AuthToken)

	got, err := c.ProviderGet(ctx, p.Email)
	require.NoError(t, err)
	assert.Equal(t, "Midtown Auto", got.BusinessName)

	require.NoError(t, c.UploadLicense(ctx, p.Email, "license.pdf", "application/pdf",
		strings.NewReader("%PDF-1.4")))

	require.NotEmpty(t, mailer.Verifications)
	url := mailer.Verifications[0].URL
	token := url[strings.LastIndex(url, "token=")+len("token="):]
	require.NoError(t, c.VerifyEmail(ctx, p.Email, token))

	_, err = c.Login(ctx, p.Email, "wrong password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
}
