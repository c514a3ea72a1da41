// Package apitest provides in-memory fakes of the storage, mail and file
// dependencies for service-level tests.
package apitest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

// Repository is an in-memory dependency.Repository.
type Repository struct {
	mu sync.Mutex

	waitlist  map[string]*entity.WaitlistEntry // keyed by email
	providers map[string]*entity.ProviderSignup
	contacts  []entity.ContactRequest
	mails     []entity.SendEmailRequest
	clicks    []entity.ReferralClick

	nextID int
}

func NewRepository() *Repository {
	return &Repository{
		waitlist:  make(map[string]*entity.WaitlistEntry),
		providers: make(map[string]*entity.ProviderSignup),
	}
}

func (r *Repository) id() int {
	r.nextID++
	return r.nextID
}

func (r *Repository) Waitlist() dependency.Waitlist   { return r }
func (r *Repository) Providers() dependency.Providers { return r }
func (r *Repository) Contact() dependency.Contact     { return r }
func (r *Repository) Mail() dependency.Mail           { return r }

func (r *Repository) Tx(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
	return f(ctx, r)
}
func (r *Repository) TxBegin(ctx context.Context) (dependency.Repository, error) { return r, nil }
func (r *Repository) TxCommit(ctx context.Context) error                         { return nil }
func (r *Repository) TxRollback(ctx context.Context) error                       { return nil }
func (r *Repository) Now() time.Time                                             { return time.Now() }
func (r *Repository) InTx() bool                                                 { return false }
func (r *Repository) Close()                                                     {}
func (r *Repository) IsErrUniqueViolation(err error) bool                        { return false }
func (r *Repository) IsErrorRepeat(err error) bool                               { return false }
func (r *Repository) DB() dependency.DB                                          { return nil }

// --- waitlist ---

func (r *Repository) AddEntry(ctx context.Context, insert *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.waitlist[insert.Email]; ok {
		cp := *existing
		return &cp, true, nil
	}

	e := &entity.WaitlistEntry{
		Id:           r.id(),
		Email:        insert.Email,
		ReferralCode: insert.ReferralCode,
		Language:     insert.Language,
		CreatedAt:    time.Now(),
	}
	if insert.Name != "" {
		e.Name.String, e.Name.Valid = insert.Name, true
	}
	if insert.VehicleYear != 0 {
		e.VehicleYear.Int32, e.VehicleYear.Valid = int32(insert.VehicleYear), true
	}
	if insert.VehicleModel != "" {
		e.VehicleModel.String, e.VehicleModel.Valid = insert.VehicleModel, true
	}
	if insert.ReferredBy != "" {
		e.ReferredBy.String, e.ReferredBy.Valid = insert.ReferredBy, true
	}
	r.waitlist[insert.Email] = e
	cp := *e
	return &cp, false, nil
}

func (r *Repository) GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.waitlist {
		if e.ReferralCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gerr.ErrSignupNotFound
}

func (r *Repository) Rank(ctx context.Context, id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.waitlist))
	for _, e := range r.waitlist {
		ids = append(ids, e.Id)
	}
	sort.Ints(ids)
	for i, eid := range ids {
		if eid == id {
			return i + 1, nil
		}
	}
	return 0, gerr.ErrSignupNotFound
}

func (r *Repository) ReferredCount(ctx context.Context, code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.waitlist {
		if e.ReferredBy.Valid && e.ReferredBy.String == code {
			n++
		}
	}
	return n, nil
}

func (r *Repository) TotalSignups(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waitlist), nil
}

func (r *Repository) TrackReferralClick(ctx context.Context, code, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	click := entity.ReferralClick{Id: r.id(), ReferralCode: code, CreatedAt: time.Now()}
	if email != "" {
		click.Email.String, click.Email.Valid = email, true
	}
	r.clicks = append(r.clicks, click)
	return nil
}

// Clicks returns the recorded referral clicks.
func (r *Repository) Clicks() []entity.ReferralClick {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ReferralClick(nil), r.clicks...)
}

// --- providers ---

func (r *Repository) Create(ctx context.Context, insert *entity.ProviderSignupInsert) (*entity.ProviderSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[insert.Email]; ok {
		return nil, gerr.ErrProviderExists
	}
	ps := &entity.ProviderSignup{
		Id:             r.id(),
		Email:          insert.Email,
		BusinessName:   insert.BusinessName,
		Status:         entity.ProviderStatusPending,
		OnboardingStep: 1,
		Language:       insert.Language,
		CreatedAt:      time.Now(),
	}
	if insert.FullName != "" {
		ps.FullName.String, ps.FullName.Valid = insert.FullName, true
	}
	r.providers[insert.Email] = ps
	cp := *ps
	return &cp, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*entity.ProviderSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.providers[email]
	if !ok {
		return nil, gerr.ErrProviderNotFound
	}
	cp := *ps
	return &cp, nil
}

func (r *Repository) Update(ctx context.Context, upd *entity.ProviderSignupUpdate) (*entity.ProviderSignup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.providers[upd.Email]
	if !ok {
		return nil, gerr.ErrProviderNotFound
	}

	setString := func(dst *string, valid *bool, v *string) {
		if v != nil {
			*dst, *valid = *v, true
		}
	}
	setString(&ps.FullName.String, &ps.FullName.Valid, upd.FullName)
	setString(&ps.Address.String, &ps.Address.Valid, upd.Address)
	setString(&ps.City.String, &ps.City.Valid, upd.City)
	setString(&ps.Province.String, &ps.Province.Valid, upd.Province)
	setString(&ps.PostalCode.String, &ps.PostalCode.Valid, upd.PostalCode)
	setString(&ps.BusinessLicenseURL.String, &ps.BusinessLicenseURL.Valid, upd.BusinessLicenseURL)
	setString(&ps.BusinessLicenseFileName.String, &ps.BusinessLicenseFileName.Valid, upd.BusinessLicenseFileName)
	setString(&ps.Services.String, &ps.Services.Valid, upd.Services)
	setString(&ps.Turnaround.String, &ps.Turnaround.Valid, upd.Turnaround)
	setString(&ps.BannerURL.String, &ps.BannerURL.Valid, upd.BannerURL)
	setString(&ps.LogoURL.String, &ps.LogoURL.Valid, upd.LogoURL)

	if upd.BusinessType != nil {
		ps.BusinessType.String, ps.BusinessType.Valid = string(*upd.BusinessType), true
	}
	if upd.HourlyRate != nil {
		ps.HourlyRate.Decimal, ps.HourlyRate.Valid = *upd.HourlyRate, true
	}
	if upd.OnboardingStep != nil {
		ps.OnboardingStep = *upd.OnboardingStep
	}
	if upd.Status != nil {
		ps.Status = *upd.Status
	}
	ps.UpdatedAt = time.Now()
	cp := *ps
	return &cp, nil
}

func (r *Repository) SetPassword(ctx context.Context, email, pwHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.providers[email]
	if !ok {
		return gerr.ErrProviderNotFound
	}
	ps.PasswordHash.String, ps.PasswordHash.Valid = pwHash, true
	return nil
}

func (r *Repository) SetVerificationToken(ctx context.Context, email, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.providers[email]
	if !ok {
		return gerr.ErrProviderNotFound
	}
	ps.VerificationToken.String, ps.VerificationToken.Valid = token, true
	ps.VerificationExpiresAt.Time, ps.VerificationExpiresAt.Valid = expiresAt, true
	return nil
}

func (r *Repository) VerifyEmail(ctx context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.providers[email]
	if !ok {
		return gerr.ErrProviderNotFound
	}
	if ps.EmailVerified {
		return nil
	}
	if !ps.VerificationToken.Valid || ps.VerificationToken.String != token {
		return gerr.ErrVerificationInvalid
	}
	if ps.VerificationExpiresAt.Valid && time.Now().After(ps.VerificationExpiresAt.Time) {
		return gerr.ErrVerificationExpired
	}
	ps.EmailVerified = true
	ps.VerificationToken.Valid = false
	ps.VerificationExpiresAt.Valid = false
	return nil
}

// --- contact ---

func (r *Repository) AddRequest(ctx context.Context, req *entity.ContactRequest) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.Id = r.id()
	r.contacts = append(r.contacts, *req)
	return req.Id, nil
}

// Contacts returns the stored contact requests.
func (r *Repository) Contacts() []entity.ContactRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ContactRequest(nil), r.contacts...)
}

// --- mail outbox ---

func (r *Repository) AddMail(ctx context.Context, ser *entity.SendEmailRequest) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ser.Id = r.id()
	r.mails = append(r.mails, *ser)
	return ser.Id, nil
}

func (r *Repository) GetAllUnsent(ctx context.Context, withError bool) ([]entity.SendEmailRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.SendEmailRequest
	for _, m := range r.mails {
		if m.Sent {
			continue
		}
		if !withError && m.ErrMsg.Valid {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Repository) UpdateSent(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.mails {
		if r.mails[i].Id == id {
			r.mails[i].Sent = true
			return nil
		}
	}
	return fmt.Errorf("mail %d not found", id)
}

func (r *Repository) AddError(ctx context.Context, id int, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.mails {
		if r.mails[i].Id == id {
			r.mails[i].ErrMsg.String, r.mails[i].ErrMsg.Valid = errMsg, true
			return nil
		}
	}
	return fmt.Errorf("mail %d not found", id)
}

// Mailer records every send without talking to any mail API.
type Mailer struct {
	mu sync.Mutex

	Verifications []SentMail
	Welcomes      []SentMail
	Contacts      []SentMail
}

// SentMail is one recorded mailer call.
type SentMail struct {
	To   string
	Name string
	URL  string
	Lang string
}

func (m *Mailer) SendProviderVerification(ctx context.Context, rep dependency.Repository, to, name, verifyURL, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verifications = append(m.Verifications, SentMail{To: to, Name: name, URL: verifyURL, Lang: lang})
	return nil
}

func (m *Mailer) SendWaitlistWelcome(ctx context.Context, rep dependency.Repository, to, name, statusURL, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Welcomes = append(m.Welcomes, SentMail{To: to, Name: name, URL: statusURL, Lang: lang})
	return nil
}

func (m *Mailer) SendContactReceived(ctx context.Context, rep dependency.Repository, req *entity.ContactRequest, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Contacts = append(m.Contacts, SentMail{To: req.Email, Lang: lang})
	return nil
}

func (m *Mailer) Start(ctx context.Context) error { return nil }
func (m *Mailer) Stop() error                     { return nil }

// FileStore returns deterministic URLs without touching any bucket.
type FileStore struct{}

func (f *FileStore) UploadImage(ctx context.Context, r io.Reader, folder, imageName, contentType string) (*entity.Image, error) {
	base := fmt.Sprintf("https://files.test/%s/%s", folder, imageName)
	return &entity.Image{FullSize: base + "_og.jpg", Compressed: base + "_compressed.jpg"}, nil
}

func (f *FileStore) UploadFile(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (*entity.MediaUpload, error) {
	return &entity.MediaUpload{
		URL:      fmt.Sprintf("https://files.test/%s/%s", folder, fileName),
		FileName: fileName,
		Size:     size,
	}, nil
}

func (f *FileStore) GetBaseFolder() string { return "test" }
