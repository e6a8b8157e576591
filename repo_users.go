package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UsersRepository is the production-grade Store backed by bun. The
// unique constraints on username and email turn the provisioning race
// into a detectable conflict the Exchanger retries as a lookup.
type UsersRepository struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Store = (*UsersRepository)(nil)

func NewUsersRepository(db *bun.DB) *UsersRepository {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &UsersRepository{
		Repository: repo,
		db:         db,
	}
}

// GetByIdentifier resolves a principal by id, email, or username,
// picking the column from the identifier's shape.
func (r *UsersRepository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	for _, opt := range resolveUserIdentifier(identifier) {
		record := &User{}

		err := r.db.NewSelect().
			Model(record).
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, errors.Wrap(err, errors.CategoryOperation, "user lookup failed")
		}

		return record, nil
	}

	return nil, errors.New("identity not found", errors.CategoryNotFound).
		WithMetadata(map[string]any{"identifier": identifier})
}

// Create inserts a principal, mapping unique-constraint violations to
// ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, user *User) (*User, error) {
	record := user.Clone()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := r.Repository.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "could not create user")
	}

	return created, nil
}

// List pages through principals ordered by username.
func (r *UsersRepository) List(ctx context.Context, page, limit int) ([]*User, error) {
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 100
	}

	var records []*User
	err := r.db.NewSelect().
		Model(&records).
		Order("username ASC").
		Offset(page * limit).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "user list failed")
	}

	return records, nil
}

type identifierOption struct {
	column string
	value  any
}

func resolveUserIdentifier(identifier string) []identifierOption {
	identifier = strings.TrimSpace(identifier)

	if id, err := uuid.Parse(identifier); err == nil {
		return []identifierOption{{column: "id", value: id}}
	}

	if _, err := mail.ParseAddress(identifier); err == nil {
		// Federated usernames are emails, so check both columns.
		return []identifierOption{
			{column: "email", value: identifier},
			{column: "username", value: identifier},
		}
	}

	return []identifierOption{{column: "username", value: identifier}}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
