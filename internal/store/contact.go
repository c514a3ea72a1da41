package store

import (
	"context"
	"fmt"

	"github.com/peepeep/peepeep-manager/internal/dependency"
	"github.com/peepeep/peepeep-manager/internal/entity"
)

type contactStore struct {
	*MYSQLStore
}

// Contact returns an object implementing Contact interface
func (ms *MYSQLStore) Contact() dependency.Contact {
	return &contactStore{
		MYSQLStore: ms,
	}
}

func (ms *MYSQLStore) AddRequest(ctx context.Context, req *entity.ContactRequest) (int, error) {
	query := `
	INSERT INTO
	contact_request
		(subject, email, message)
	VALUES
		(:subject, :email, :message)
	`
	id, err := ExecNamedLastId(ctx, ms.DB(), query, map[string]any{
		"subject": req.Subject,
		"email":   req.Email,
		"message": req.Message,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add contact request: %w", err)
	}
	return id, nil
}
