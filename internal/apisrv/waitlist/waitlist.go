// Package waitlist implements the consumer waitlist operations: signup,
// status lookup with queue position, referral tracking and the contact
// form.
package waitlist

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/peepeep/peepeep-manager/internal/catalog"
	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/dto"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
	"github.com/peepeep/peepeep-manager/internal/flow"
	"github.com/peepeep/peepeep-manager/internal/i18n"
	"github.com/peepeep/peepeep-manager/internal/share"
)

type Config struct {
	// PublicURL is the site origin referral and status links point at.
	PublicURL string `mapstructure:"public_url"`
	// ReferralBoost is how many positions one referred signup is worth.
	ReferralBoost int `mapstructure:"referral_boost"`
}

// Server implements the waitlist service.
type Server struct {
	repo   dependency.Repository
	mailer dependency.Mailer
	c      *Config
}

func New(c *Config, repo dependency.Repository, mailer dependency.Mailer) *Server {
	if c.ReferralBoost <= 0 {
		c.ReferralBoost = 1
	}
	return &Server{
		repo:   repo,
		mailer: mailer,
		c:      c,
	}
}

// SignupRequest is the waitlist signup payload.
type SignupRequest struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	VehicleYear  int    `json:"vehicleYear"`
	VehicleMake  string `json:"vehicleMake"`
	VehicleModel string `json:"vehicleModel"`
	// VehicleModelOther carries the free-typed model when the catalog
	// escape entry was picked.
	VehicleModelOther string `json:"vehicleModelOther"`
	ReferredBy        string `json:"ref"`
	Language          string `json:"language"`
}

// Signup adds an email to the waitlist. Duplicate emails return the
// existing entry instead of failing so the status link can be re-served.
func (s *Server) Signup(ctx context.Context, req *SignupRequest) (*dto.WaitlistSignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !govalidator.IsEmail(email) {
		return nil, gerr.New(gerr.CodeInvalidRequest, "invalid email address")
	}

	in := flow.VehicleInput{
		Year:  req.VehicleYear,
		Make:  req.VehicleMake,
		Model: req.VehicleModel,
	}
	if _, err := flow.NextWaitlistStep(flow.StepVehicleEntry, in); err != nil {
		return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
	}
	model, err := flow.ResolveModel(in, req.VehicleModelOther)
	if err != nil {
		return nil, gerr.New(gerr.CodeInvalidRequest, err.Error())
	}
	vehicle := model
	if req.VehicleMake != "" && req.VehicleModel != catalog.OtherValue {
		vehicle = req.VehicleMake + " " + model
	}

	lang := i18n.Parse(req.Language)

	// referral attribution only counts codes that actually exist
	referredBy := ""
	if req.ReferredBy != "" {
		if _, err := s.repo.Waitlist().GetByReferralCode(ctx, req.ReferredBy); err == nil {
			referredBy = req.ReferredBy
		}
	}

	entry, exists, err := s.repo.Waitlist().AddEntry(ctx, &entity.WaitlistEntryInsert{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		VehicleYear:  req.VehicleYear,
		VehicleModel: vehicle,
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
		Language:     string(lang),
	})
	if err != nil {
		return nil, fmt.Errorf("can't add waitlist entry: %w", err)
	}

	statusURL := share.StatusURL(s.c.PublicURL, entry.ReferralCode)

	if !exists {
		if err := s.mailer.SendWaitlistWelcome(ctx, s.repo, entry.Email, entry.Name.String, statusURL, entry.Language); err != nil {
			slog.Default().ErrorContext(ctx, "can't send welcome mail",
				slog.String("err", err.Error()),
			)
		}
	}

	position, total, _, err := s.queuePosition(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &dto.WaitlistSignupResponse{
		Email:         entry.Email,
		ReferralCode:  entry.ReferralCode,
		StatusURL:     statusURL,
		Position:      position,
		TotalSignups:  total,
		AlreadyExists: exists,
	}, nil
}

// queuePosition computes the boost-adjusted queue position, the total
// signup count and the referred count for an entry.
func (s *Server) queuePosition(ctx context.Context, entry *entity.WaitlistEntry) (int, int, int, error) {
	ws := s.repo.Waitlist()

	rank, err := ws.Rank(ctx, entry.Id)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("can't rank waitlist entry: %w", err)
	}
	referred, err := ws.ReferredCount(ctx, entry.ReferralCode)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("can't count referred signups: %w", err)
	}
	total, err := ws.TotalSignups(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("can't count signups: %w", err)
	}

	position := rank - s.c.ReferralBoost*referred
	if position < 1 {
		position = 1
	}
	return position, total, referred, nil
}

// Status serves the status page payload for a referral code. The queue
// position is the signup rank reduced by the referral boost, never below
// first place.
func (s *Server) Status(ctx context.Context, code string) (*dto.WaitlistStatusResponse, error) {
	entry, err := s.repo.Waitlist().GetByReferralCode(ctx, code)
	if err != nil {
		return nil, err
	}

	position, total, referred, err := s.queuePosition(ctx, entry)
	if err != nil {
		return nil, err
	}

	lang := i18n.Parse(entry.Language)

	greeting := i18n.T(lang, "greeting_default")
	if entry.Name.Valid && entry.Name.String != "" {
		greeting = strings.ReplaceAll(i18n.T(lang, "greeting_custom"), "{name}", entry.Name.String)
	}

	vehicle := dto.VehicleLabel(entry)
	if vehicle == "" {
		vehicle = i18n.T(lang, "vehicle_default")
	}

	refURL := share.ReferralURL(s.c.PublicURL, entry.ReferralCode)
	links := share.Build(refURL, lang)

	return &dto.WaitlistStatusResponse{
		Email:        entry.Email,
		Name:         entry.Name.String,
		Greeting:     greeting,
		Vehicle:      vehicle,
		Position:     position,
		TotalSignups: total,
		Referred:     referred,
		ReferralCode: entry.ReferralCode,
		ReferralURL:  refURL,
		ShareLinks: dto.ShareLinks{
			WhatsApp: links.WhatsApp,
			Twitter:  links.Twitter,
			Email:    links.Email,
			LinkedIn: links.LinkedIn,
			Facebook: links.Facebook,
		},
	}, nil
}

// TrackReferral records a referral link visit. Attribution is best effort
// and never fails the request.
func (s *Server) TrackReferral(ctx context.Context, code, email string) {
	if code == "" {
		return
	}
	if err := s.repo.Waitlist().TrackReferralClick(ctx, code, strings.ToLower(strings.TrimSpace(email))); err != nil {
		slog.Default().ErrorContext(ctx, "can't track referral click",
			slog.String("err", err.Error()),
			slog.String("code", code),
		)
	}
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// SubmitContact stores a contact form submission and acknowledges it by
// mail.
func (s *Server) SubmitContact(ctx context.Context, req *ContactRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !govalidator.IsEmail(email) {
		return gerr.New(gerr.CodeInvalidRequest, "invalid email address")
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return gerr.New(gerr.CodeInvalidRequest, "subject and message are required")
	}

	cr := &entity.ContactRequest{
		Subject: strings.TrimSpace(req.Subject),
		Email:   email,
		Message: strings.TrimSpace(req.Message),
	}
	if _, err := s.repo.Contact().AddRequest(ctx, cr); err != nil {
		return fmt.Errorf("can't add contact request: %w", err)
	}

	if err := s.mailer.SendContactReceived(ctx, s.repo, cr, string(i18n.Parse(req.Language))); err != nil {
		slog.Default().ErrorContext(ctx, "can't send contact acknowledgement",
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// newReferralCode generates a short shareable code.
func newReferralCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
