package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

type waitlistStore struct {
	*MYSQLStore
}

// Waitlist returns an object implementing Waitlist interface
func (ms *MYSQLStore) Waitlist() dependency.Waitlist {
	return &waitlistStore{
		MYSQLStore: ms,
	}
}

// AddEntry runs the check-insert-reread dedupe in one serializable
// transaction so two concurrent signups for the same email settle on a
// single row.
func (ms *MYSQLStore) AddEntry(ctx context.Context, insert *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, bool, error) {
	if !ms.InTx() {
		var (
			entry  *entity.WaitlistEntry
			exists bool
		)
		err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
			var err error
			entry, exists, err = rep.Waitlist().AddEntry(ctx, insert)
			return err
		})
		return entry, exists, err
	}

	existing, err := ms.getEntryByEmail(ctx, insert.Email)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to check waitlist entry: %w", err)
	}

	query := `
	INSERT INTO
	waitlist_entry
		(email, name, vehicle_year, vehicle_model, referral_code, referred_by, language)
	VALUES
		(:email, :name, :vehicleYear, :vehicleModel, :referralCode, :referredBy, :language)
	`
	params := map[string]any{
		"email":        insert.Email,
		"name":         sql.NullString{String: insert.Name, Valid: insert.Name != ""},
		"vehicleYear":  sql.NullInt32{Int32: int32(insert.VehicleYear), Valid: insert.VehicleYear != 0},
		"vehicleModel": sql.NullString{String: insert.VehicleModel, Valid: insert.VehicleModel != ""},
		"referralCode": insert.ReferralCode,
		"referredBy":   sql.NullString{String: insert.ReferredBy, Valid: insert.ReferredBy != ""},
		"language":     insert.Language,
	}

	id, err := ExecNamedLastId(ctx, ms.DB(), query, params)
	if err != nil {
		if ms.IsErrUniqueViolation(err) {
			// lost a race with a concurrent signup for the same email
			existing, gerr2 := ms.getEntryByEmail(ctx, insert.Email)
			if gerr2 != nil {
				return nil, false, fmt.Errorf("failed to re-read waitlist entry: %w", gerr2)
			}
			return existing, true, nil
		}
		return nil, false, fmt.Errorf("failed to add waitlist entry: %w", err)
	}

	entry, err := QueryNamedOne[entity.WaitlistEntry](ctx, ms.DB(),
		`SELECT * FROM waitlist_entry WHERE id = :id`, map[string]any{"id": id})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read waitlist entry back: %w", err)
	}
	return &entry, false, nil
}

func (ms *MYSQLStore) getEntryByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error) {
	var entry entity.WaitlistEntry
	err := ms.DB().GetContext(ctx, &entry, `SELECT * FROM waitlist_entry WHERE email = ?`, email)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (ms *MYSQLStore) GetByReferralCode(ctx context.Context, code string) (*entity.WaitlistEntry, error) {
	var entry entity.WaitlistEntry
	err := ms.DB().GetContext(ctx, &entry, `SELECT * FROM waitlist_entry WHERE referral_code = ?`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrSignupNotFound
		}
		return nil, fmt.Errorf("failed to get waitlist entry: %w", err)
	}
	return &entry, nil
}

// Rank returns the 1-based position of an entry ordered by signup time.
func (ms *MYSQLStore) Rank(ctx context.Context, id int) (int, error) {
	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM waitlist_entry WHERE id <= :id`, map[string]any{"id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to rank waitlist entry: %w", err)
	}
	if count == 0 {
		return 0, gerr.ErrSignupNotFound
	}
	return count, nil
}

func (ms *MYSQLStore) ReferredCount(ctx context.Context, code string) (int, error) {
	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM waitlist_entry WHERE referred_by = :code`, map[string]any{"code": code})
	if err != nil {
		return 0, fmt.Errorf("failed to count referred signups: %w", err)
	}
	return count, nil
}

func (ms *MYSQLStore) TotalSignups(ctx context.Context) (int, error) {
	count, err := QueryCountNamed(ctx, ms.DB(),
		`SELECT COUNT(*) FROM waitlist_entry`, map[string]any{})
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}
	return count, nil
}

func (ms *MYSQLStore) TrackReferralClick(ctx context.Context, code, email string) error {
	err := ExecNamed(ctx, ms.DB(),
		`INSERT INTO referral_click (referral_code, email) VALUES (:code, :email)`, map[string]any{
			"code":  code,
			"email": sql.NullString{String: email, Valid: email != ""},
		})
	if err != nil {
		return fmt.Errorf("failed to track referral click: %w", err)
	}
	return nil
}
