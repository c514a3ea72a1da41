// Package provider implements provider (shop) onboarding: signup, the
// step-by-step wizard, email verification, login and media uploads.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"log/slog"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/peepeep/peepeep-manager/internal/auth/jwt"
	"github.com/peepeep/peepeep-manager/internal/auth/pwhash"
	"github.com/peepeep/peepeep-manager/internal/badge"
	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/dto"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
	"github.com/peepeep/peepeep-manager/internal/flow"
	"github.com/peepeep/peepeep-manager/internal/i18n"
)

type Config struct {
	PublicURL                string        `mapstructure:"public_url"`
	JWTSecret                string        `mapstructure:"jwtSecret"`
	JWTTTL                   string        `mapstructure:"jwtttl"`
	PasswordHasherSaltSize   int           `mapstructure:"passwordHasherSaltSize"`
	PasswordHasherIterations int           `mapstructure:"passwordHasherIterations"`
	GoogleClientID           string        `mapstructure:"googleClientId"`
	VerificationTTL          time.Duration `mapstructure:"verification_ttl"`
}

// Server implements the provider onboarding service.
type Server struct {
	repo    dependency.Repository
	mailer  dependency.Mailer
	files   dependency.FileStore
	pwhash  *pwhash.PasswordHasher
	JwtAuth *jwtauth.JWTAuth
	jwtTTL  time.Duration
	c       *Config

	// googleVerify validates a raw Google ID token. Swappable in tests.
	googleVerify func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

func New(c *Config, repo dependency.Repository, mailer dependency.Mailer, files dependency.FileStore) (*Server, error) {
	ph, err := pwhash.New(c.PasswordHasherSaltSize, c.PasswordHasherIterations)
	if err != nil {
		return nil, err
	}
	ttl, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return nil, err
	}
	if c.VerificationTTL <= 0 {
		c.VerificationTTL = 48 * time.Hour
	}
	return &Server{
		repo:         repo,
		mailer:       mailer,
		files:        files,
		pwhash:       ph,
		JwtAuth:      jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		jwtTTL:       ttl,
		c:            c,
		googleVerify: idtoken.Validate,
	}, nil
}

// CreateRequest is the initial provider signup payload. Password is
// optional; when given the account is claimed from the start instead of
// going through the deferred-claim flow.
type CreateRequest struct {
	Email        string  `json:"email"`
	BusinessName string  `json:"businessName"`
	FullName     string  `json:"fullName"`
	Password     *string `json:"password"`
	Language     string  `json:"language"`
}

// Create registers a provider signup and sends the verification mail.
func (s *Server) Create(ctx context.Context, req *CreateRequest) (*dto.ProviderProfile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !govalidator.IsEmail(email) {
		return nil, gerr.New(gerr.CodeInvalidRequest, "invalid email address")
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, gerr.New(gerr.CodeInvalidRequest, "business name is required")
	}
	if req.Password != nil && len(*req.Password) < minPasswordLength {
		return nil, gerr.New(gerr.CodeInvalidRequest, "password must be at least 8 characters")
	}

	lang := i18n.Parse(req.Language)

	ps, err := s.repo.Providers().Create(ctx, &entity.ProviderSignupInsert{
		Email:        email,
		BusinessName: strings.TrimSpace(req.BusinessName),
		FullName:     strings.TrimSpace(req.FullName),
		Language:     string(lang),
	})
	if err != nil {
		return nil, err
	}

	if req.Password != nil {
		if err := s.claimPassword(ctx, ps, *req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.sendVerification(ctx, ps); err != nil {
		slog.Default().ErrorContext(ctx, "can't send verification mail",
			slog.String("err", err.Error()),
		)
	}

	return dto.ConvertProviderSignup(ps), nil
}

func (s *Server) sendVerification(ctx context.Context, ps *entity.ProviderSignup) error {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.repo.Providers().SetVerificationToken(ctx, ps.Email, token, time.Now().Add(s.c.VerificationTTL)); err != nil {
		return fmt.Errorf("can't set verification token: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/verify-email?email=%s&token=%s",
		strings.TrimRight(s.c.PublicURL, "/"), ps.Email, token)

	return s.mailer.SendProviderVerification(ctx, s.repo, ps.Email, ps.FullName.String, verifyURL, ps.Language)
}

// UpdateRequest is a sparse wizard or profile patch. Absent fields are
// left untouched.
type UpdateRequest struct {
	FullName       *string  `json:"fullName"`
	Address        *string  `json:"address"`
	City           *string  `json:"city"`
	Province       *string  `json:"province"`
	PostalCode     *string  `json:"postalCode"`
	BusinessType   *string  `json:"businessType"`
	HourlyRate     *string  `json:"hourlyRate"`
	Services       []string `json:"services"`
	Turnaround     *string  `json:"turnaround"`
	OnboardingStep *int     `json:"onboardingStep"`
	Password       *string  `json:"password"`
}

// Update applies a wizard or profile patch. Step changes go through the
// wizard state machine: one step at a time, forward only past validated
// data. Setting a password claims the account; once claimed it requires
// an authenticated session.
func (s *Server) Update(ctx context.Context, email string, req *UpdateRequest, authenticated bool) (*dto.ProviderProfile, error) {
	ps, err := s.repo.Providers().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// an unclaimed account may be edited through the signup funnel; a
	// claimed one only by its owner
	if ps.PasswordHash.Valid && !authenticated {
		return nil, gerr.New(gerr.CodeUnauthorized, "account is claimed, log in to edit it")
	}

	if req.Password != nil {
		if err := s.claimPassword(ctx, ps, *req.Password); err != nil {
			return nil, err
		}
	}

	upd := &entity.ProviderSignupUpdate{Email: ps.Email}
	upd.FullName = req.FullName
	upd.Address = req.Address
	upd.City = req.City
	upd.Province = req.Province
	upd.PostalCode = req.PostalCode
	upd.Turnaround = req.Turnaround

	if req.BusinessType != nil {
		bt := entity.BusinessType(*req.BusinessType)
		if !bt.Valid() {
			return nil, gerr.New(gerr.CodeInvalidRequest, fmt.Sprintf("unknown business type %q", *req.BusinessType))
		}
		upd.BusinessType = &bt
	}
	if req.HourlyRate != nil {
		rate, err := dto.ParseRate(*req.HourlyRate)
		if err != nil {
			return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
		}
		if !rate.IsPositive() {
			return nil, gerr.New(gerr.CodeInvalidRequest, "hourly rate must be positive")
		}
		upd.HourlyRate = &rate
	}
	if req.Services != nil {
		joined := dto.JoinServices(req.Services)
		upd.Services = &joined
	}

	if req.OnboardingStep != nil {
		done, err := s.advanceWizard(ps, req, upd, *req.OnboardingStep)
		if err != nil {
			return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
		}
		if done {
			status := entity.ProviderStatusPendingReview
			upd.Status = &status
			step := flow.WizardStepLast
			upd.OnboardingStep = &step
		} else {
			upd.OnboardingStep = req.OnboardingStep
		}
	}

	updated, err := s.repo.Providers().Update(ctx, upd)
	if err != nil {
		return nil, err
	}
	return dto.ConvertProviderSignup(updated), nil
}

// advanceWizard validates the step move against the profile as it will
// look after the patch.
func (s *Server) advanceWizard(ps *entity.ProviderSignup, req *UpdateRequest, upd *entity.ProviderSignupUpdate, next int) (bool, error) {
	in := flow.WizardInput{
		Address:      ps.Address.String,
		City:         ps.City.String,
		Province:     ps.Province.String,
		PostalCode:   ps.PostalCode.String,
		BusinessType: entity.BusinessType(ps.BusinessType.String),
		LicenseURL:   ps.BusinessLicenseURL.String,
	}
	if ps.HourlyRate.Valid {
		in.HourlyRate = ps.HourlyRate.Decimal
	}
	if ps.Services.Valid {
		in.Services = dto.SplitServices(ps.Services.String)
	}

	if upd.Address != nil {
		in.Address = *upd.Address
	}
	if upd.City != nil {
		in.City = *upd.City
	}
	if upd.Province != nil {
		in.Province = *upd.Province
	}
	if upd.PostalCode != nil {
		in.PostalCode = *upd.PostalCode
	}
	if upd.BusinessType != nil {
		in.BusinessType = *upd.BusinessType
	}
	if upd.HourlyRate != nil {
		in.HourlyRate = *upd.HourlyRate
	}
	if req.Services != nil {
		in.Services = req.Services
	}

	return flow.AdvanceWizard(ps.OnboardingStep, next, in)
}

const minPasswordLength = 8

func (s *Server) claimPassword(ctx context.Context, ps *entity.ProviderSignup, password string) error {
	if len(password) < minPasswordLength {
		return gerr.New(gerr.CodeInvalidRequest, "password must be at least 8 characters")
	}
	hash, err := s.pwhash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("can't hash password: %w", err)
	}
	if err := s.repo.Providers().SetPassword(ctx, ps.Email, hash); err != nil {
		return err
	}
	ps.PasswordHash.String = hash
	ps.PasswordHash.Valid = true
	return nil
}

// Get serves a provider profile by email.
func (s *Server) Get(ctx context.Context, email string) (*dto.ProviderProfile, error) {
	ps, err := s.repo.Providers().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return dto.ConvertProviderSignup(ps), nil
}

// VerifyEmail confirms the address using the mailed token.
func (s *Server) VerifyEmail(ctx context.Context, email, token string) error {
	return s.repo.Providers().VerifyEmail(ctx, strings.ToLower(strings.TrimSpace(email)), token)
}

// LoginResponse carries the session token and the logged-in profile.
type LoginResponse struct {
	AuthToken string               `json:"authToken"`
	Profile   *dto.ProviderProfile `json:"profile"`
}

// Login authenticates a provider by email and password. An existing
// signup with no password set is reported as unclaimed so the client can
// switch to claim mode.
func (s *Server) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	ps, err := s.repo.Providers().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, gerr.ErrInvalidCredentials
	}

	if !ps.PasswordHash.Valid || ps.PasswordHash.String == "" {
		return nil, gerr.ErrAccountNotClaimed
	}

	if err := s.pwhash.Validate(password, ps.PasswordHash.String); err != nil {
		return nil, gerr.ErrInvalidCredentials
	}

	return s.issueSession(ps)
}

// LoginWithGoogle authenticates a provider with a Google ID token. An
// unknown email auto-creates the signup, pre-filled from the token claims.
func (s *Server) LoginWithGoogle(ctx context.Context, rawIDToken string) (*LoginResponse, error) {
	payload, err := s.googleVerify(ctx, rawIDToken, s.c.GoogleClientID)
	if err != nil {
		return nil, gerr.New(gerr.CodeInvalidCredentials, "invalid google token")
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, gerr.New(gerr.CodeInvalidCredentials, "google token carries no email")
	}
	email = strings.ToLower(email)

	ps, err := s.repo.Providers().GetByEmail(ctx, email)
	if errors.Is(err, gerr.ErrProviderNotFound) {
		name, _ := payload.Claims["name"].(string)
		name = strings.TrimSpace(name)
		businessName := name
		if businessName == "" {
			businessName, _, _ = strings.Cut(email, "@")
		}
		locale, _ := payload.Claims["locale"].(string)

		ps, err = s.repo.Providers().Create(ctx, &entity.ProviderSignupInsert{
			Email:        email,
			BusinessName: businessName,
			FullName:     name,
			Language:     string(i18n.Parse(locale)),
		})
	}
	if err != nil {
		return nil, err
	}

	return s.issueSession(ps)
}

func (s *Server) issueSession(ps *entity.ProviderSignup) (*LoginResponse, error) {
	token, err := jwt.NewToken(s.JwtAuth, s.jwtTTL, ps.Email)
	if err != nil {
		return nil, fmt.Errorf("can't issue token: %w", err)
	}
	return &LoginResponse{
		AuthToken: token,
		Profile:   dto.ConvertProviderSignup(ps),
	}, nil
}

// UploadLicense stores the business license document and records it on
// the signup.
func (s *Server) UploadLicense(ctx context.Context, email string, r io.Reader, size int64, fileName, contentType string) (*entity.MediaUpload, error) {
	ps, err := s.repo.Providers().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("license_%d_%s", ps.Id, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	up, err := s.files.UploadFile(ctx, r, size, "licenses", name, contentType)
	if err != nil {
		return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
	}

	_, err = s.repo.Providers().Update(ctx, &entity.ProviderSignupUpdate{
		Email:                   ps.Email,
		BusinessLicenseURL:      &up.URL,
		BusinessLicenseFileName: &fileName,
	})
	if err != nil {
		return nil, err
	}
	return up, nil
}

// UploadImage stores a banner or logo image and records the hosted URL.
func (s *Server) UploadImage(ctx context.Context, email, kind string, r io.Reader, contentType string) (*entity.Image, error) {
	if kind != "banner" && kind != "logo" {
		return nil, gerr.New(gerr.CodeInvalidRequest, fmt.Sprintf("unknown image kind %q", kind))
	}

	ps, err := s.repo.Providers().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%d_%s", kind, ps.Id, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	img, err := s.files.UploadImage(ctx, r, kind+"s", name, contentType)
	if err != nil {
		return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
	}

	upd := &entity.ProviderSignupUpdate{Email: ps.Email}
	if kind == "banner" {
		upd.BannerURL = &img.FullSize
	} else {
		upd.LogoURL = &img.FullSize
	}
	if _, err := s.repo.Providers().Update(ctx, upd); err != nil {
		return nil, err
	}
	return img, nil
}

// Badge renders the provider's downloadable share card.
func (s *Server) Badge(ctx context.Context, email string, w io.Writer) error {
	ps, err := s.repo.Providers().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	p := dto.ConvertProviderSignup(ps)
	footer := strings.TrimPrefix(strings.TrimPrefix(s.c.PublicURL, "https://"), "http://")
	card := badge.Card{
		Initials: p.Initials,
		Title:    p.BusinessName,
		Subtitle: dto.JoinLocation(p.City, p.Province),
		Rate:     p.HourlyRateLabel,
		Footer:   strings.TrimRight(footer, "/"),
	}
	return badge.EncodePNG(w, card)
}
