package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peepeep/peepeep-manager/internal/apisrv/apitest"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

func newTestServer() (*Server, *apitest.Repository, *apitest.Mailer) {
	repo := apitest.NewRepository()
	mailer := &apitest.Mailer{}
	srv := New(&Config{
		PublicURL:     "https://peepeep.com",
		ReferralBoost: 2,
	}, repo, mailer)
	return srv, repo, mailer
}

func signupReq(email string) *SignupRequest {
	return &SignupRequest{
		Email:        email,
		Name:         "Jane Driver",
		VehicleYear:  time.Now().Year(),
		VehicleMake:  "Honda",
		VehicleModel: "Civic",
		Language:     "en",
	}
}

func TestSignup(t *testing.T) {
	srv, _, mailer := newTestServer()
	ctx := context.Background()

	resp, err := srv.Signup(ctx, signupReq("jane@mail.test"))
	require.NoError(t, err)
	assert.False(t, resp.AlreadyExists)
	assert.Len(t, resp.ReferralCode, 8)
	assert.Equal(t, "https://peepeep.com/status?code="+resp.ReferralCode, resp.StatusURL)
	assert.Equal(t, 1, resp.Position)
	assert.Equal(t, 1, resp.TotalSignups)

	require.Len(t, mailer.Welcomes, 1)
	assert.Equal(t, "jane@mail.test", mailer.Welcomes[0].To)
	assert.Equal(t, resp.StatusURL, mailer.Welcomes[0].URL)

	// duplicate signup returns the original status link without resending mail
	dup, err := srv.Signup(ctx, signupReq("jane@mail.test"))
	require.NoError(t, err)
	assert.True(t, dup.AlreadyExists)
	assert.Equal(t, resp.ReferralCode, dup.ReferralCode)
	assert.Equal(t, 1, dup.Position)
	assert.Len(t, mailer.Welcomes, 1)
}

func TestSignupValidation(t *testing.T) {
	srv, _, _ := newTestServer()
	ctx := context.Background()

	req := signupReq("not-an-email")
	_, err := srv.Signup(ctx, req)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	req = signupReq("jane@mail.test")
	req.VehicleModel = ""
	_, err = srv.Signup(ctx, req)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	req = signupReq("jane@mail.test")
	req.VehicleYear = 1980
	_, err = srv.Signup(ctx, req)
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))
}

func TestSignupOtherModel(t *testing.T) {
	srv, _, _ := newTestServer()
	ctx := context.Background()

	req := signupReq("jane@mail.test")
	req.VehicleModel = "Other"
	req.VehicleModelOther = "Kei Truck"
	resp, err := srv.Signup(ctx, req)
	require.NoError(t, err)

	status, err := srv.Status(ctx, resp.ReferralCode)
	require.NoError(t, err)
	assert.Contains(t, status.Vehicle, "Kei Truck")
}

func TestSignupReferralAttribution(t *testing.T) {
	srv, _, _ := newTestServer()
	ctx := context.Background()

	first, err := srv.Signup(ctx, signupReq("first@mail.test"))
	require.NoError(t, err)

	// a bogus referral code is dropped silently
	req := signupReq("second@mail.test")
	req.ReferredBy = "bogus123"
	_, err = srv.Signup(ctx, req)
	require.NoError(t, err)

	req = signupReq("third@mail.test")
	req.ReferredBy = first.ReferralCode
	_, err = srv.Signup(ctx, req)
	require.NoError(t, err)

	status, err := srv.Status(ctx, first.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Referred)
}

func TestStatusPositionBoost(t *testing.T) {
	srv, _, _ := newTestServer()
	ctx := context.Background()

	first, err := srv.Signup(ctx, signupReq("first@mail.test"))
	require.NoError(t, err)
	second, err := srv.Signup(ctx, signupReq("second@mail.test"))
	require.NoError(t, err)
	third, err := srv.Signup(ctx, signupReq("third@mail.test"))
	require.NoError(t, err)

	// one referral moves the third entry up by the configured boost,
	// but never above first place
	req := signupReq("fourth@mail.test")
	req.ReferredBy = third.ReferralCode
	fourth, err := srv.Signup(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, fourth.Position)
	assert.Equal(t, 4, fourth.TotalSignups)

	status, err := srv.Status(ctx, third.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Position)
	assert.Equal(t, 4, status.TotalSignups)

	status, err = srv.Status(ctx, second.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Position)

	status, err = srv.Status(ctx, first.ReferralCode)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Position)
	assert.Equal(t, "Hang tight, Jane Driver.", status.Greeting)
	assert.Contains(t, status.ShareLinks.WhatsApp, "https://wa.me/?text=")

	_, err = srv.Status(ctx, "missing1")
	assert.ErrorIs(t, err, gerr.ErrSignupNotFound)
}

func TestTrackReferral(t *testing.T) {
	srv, repo, _ := newTestServer()
	ctx := context.Background()

	srv.TrackReferral(ctx, "aaaa1111", "Visitor@Mail.Test ")
	srv.TrackReferral(ctx, "", "ignored@mail.test")

	clicks := repo.Clicks()
	require.Len(t, clicks, 1)
	assert.Equal(t, "aaaa1111", clicks[0].ReferralCode)
	assert.Equal(t, "visitor@mail.test", clicks[0].Email.String)
}

func TestSubmitContact(t *testing.T) {
	srv, repo, mailer := newTestServer()
	ctx := context.Background()

	err := srv.SubmitContact(ctx, &ContactRequest{
		Subject:  "Fleet pricing",
		Email:    "ops@fleet.test",
		Message:  "Do you support fleets?",
		Language: "fr-CA",
	})
	require.NoError(t, err)

	contacts := repo.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "Fleet pricing", contacts[0].Subject)
	require.Len(t, mailer.Contacts, 1)
	assert.Equal(t, "ops@fleet.test", mailer.Contacts[0].To)
	// the acknowledgement goes out in the sender's language
	assert.Equal(t, "fr", mailer.Contacts[0].Lang)

	err = srv.SubmitContact(ctx, &ContactRequest{Subject: "x", Email: "bad", Message: "y"})
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))

	err = srv.SubmitContact(ctx, &ContactRequest{Email: "ok@mail.test"})
	assert.Equal(t, gerr.CodeInvalidRequest, gerr.CodeOf(err))
}
