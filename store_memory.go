package auth

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and
// small deployments; production setups plug in the bun-backed
// UsersRepository instead.
type MemoryStore struct {
	mu      sync.RWMutex
	byName  map[string]*User
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName:  map[string]*User{},
		byEmail: map[string]string{},
	}
}

var _ Store = (*MemoryStore)(nil)

// GetByIdentifier resolves a principal by username first, then email.
func (s *MemoryStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "store lookup cancelled")
	}

	identifier = strings.TrimSpace(identifier)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.byName[identifier]; ok {
		return user.Clone(), nil
	}

	if username, ok := s.byEmail[identifier]; ok {
		if user, ok := s.byName[username]; ok {
			return user.Clone(), nil
		}
	}

	return nil, errors.New("identity not found", errors.CategoryNotFound).
		WithMetadata(map[string]any{"identifier": identifier})
}

// Create inserts a principal. The single lock makes lookup-then-insert
// atomic, so concurrent provisioning for one email collapses into one
// winner and ErrAlreadyExists for the rest.
func (s *MemoryStore) Create(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "store create cancelled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[user.Username]; ok {
		return nil, ErrAlreadyExists
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return nil, ErrAlreadyExists
	}

	record := user.Clone()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	s.byName[record.Username] = record
	s.byEmail[record.Email] = record.Username

	return record.Clone(), nil
}

// SetDisabled flips the disabled flag on a stored principal. It is a
// helper on the concrete type; the Store contract itself stays
// read-plus-create.
func (s *MemoryStore) SetDisabled(username string, disabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byName[username]
	if !ok {
		return false
	}

	user.Disabled = disabled
	return true
}

// List pages through principals ordered by username.
func (s *MemoryStore) List(ctx context.Context, page, limit int) ([]*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "store list cancelled")
	}

	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	usernames := make([]string, 0, len(s.byName))
	for username := range s.byName {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	start := page * limit
	if start >= len(usernames) {
		return []*User{}, nil
	}

	end := start + limit
	if end > len(usernames) {
		end = len(usernames)
	}

	out := make([]*User, 0, end-start)
	for _, username := range usernames[start:end] {
		out = append(out, s.byName[username].Clone())
	}

	return out, nil
}
