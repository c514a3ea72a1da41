package dependency

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/peepeep/peepeep-manager/internal/entity"
)

type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	Waitlist interface {
		ContextStore
		// AddEntry inserts a new waitlist entry. When an entry with the same
		// email already exists it is returned unchanged with exists=true.
		AddEntry(ctx context.Context, insert *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, bool, error)
		// GetByReferralCode returns the entry owning the referral code.
		GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error)
		// Rank returns the 1-based position of the entry by signup time.
		Rank(ctx context.Context, id int) (int, error)
		// ReferredCount returns how many signups were attributed to the code.
		ReferredCount(ctx context.Context, code string) (int, error)
		// TotalSignups returns the total number of waitlist entries.
		TotalSignups(ctx context.Context) (int, error)
		// TrackReferralClick records a best-effort click attribution.
		TrackReferralClick(ctx context.Context, code, email string) error
	}

	Providers interface {
		ContextStore
		Create(ctx context.Context, insert *entity.ProviderSignupInsert) (*entity.ProviderSignup, error)
		GetByEmail(ctx context.Context, email string) (*entity.ProviderSignup, error)
		// Update applies a sparse patch; nil fields are left untouched.
		Update(ctx context.Context, upd *entity.ProviderSignupUpdate) (*entity.ProviderSignup, error)
		SetPassword(ctx context.Context, email, pwHash string) error
		SetVerificationToken(ctx context.Context, email, token string, expiresAt time.Time) error
		// VerifyEmail checks the token and marks the signup verified.
		VerifyEmail(ctx context.Context, email, token string) error
	}

	Contact interface {
		AddRequest(ctx context.Context, req *entity.ContactRequest) (int, error)
	}

	Mail interface {
		AddMail(ctx context.Context, ser *entity.SendEmailRequest) (int, error)
		GetAllUnsent(ctx context.Context, withError bool) ([]entity.SendEmailRequest, error)
		UpdateSent(ctx context.Context, id int) error
		AddError(ctx context.Context, id int, errMsg string) error
	}

	Repository interface {
		Waitlist() Waitlist
		Providers() Providers
		Contact() Contact
		Mail() Mail
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	FileStore interface {
		// UploadImage stores an image and its compressed variant, returning
		// the hosted URLs.
		UploadImage(ctx context.Context, r io.Reader, folder, imageName, contentType string) (*entity.Image, error)
		// UploadFile stores a raw document (business license) as-is.
		UploadFile(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (*entity.MediaUpload, error)
		// GetBaseFolder returns the base folder for the bucket.
		GetBaseFolder() string
	}

	Mailer interface {
		SendProviderVerification(ctx context.Context, rep Repository, to, name, verifyURL, lang string) error
		SendWaitlistWelcome(ctx context.Context, rep Repository, to, name, statusURL, lang string) error
		SendContactReceived(ctx context.Context, rep Repository, req *entity.ContactRequest, lang string) error
		Start(ctx context.Context) error
		Stop() error
	}
)
