package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDB connects to the database named by PEEPEEP_TEST_DSN and wipes
// all tables. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *MYSQLStore {
	dsn := os.Getenv("PEEPEEP_TEST_DSN")
	if dsn == "" {
		t.Skip("PEEPEEP_TEST_DSN is not set")
	}

	db, err := New(context.Background(), Config{
		DSN:         dsn,
		Automigrate: true,
	})
	require.NoError(t, err)

	for _, table := range []string{
		"send_email_request",
		"provider_signup",
		"contact_request",
		"referral_click",
		"waitlist_entry",
	} {
		_, err = db.db.ExecContext(context.Background(), "DELETE FROM "+table)
		require.NoError(t, err)
	}

	return db
}
