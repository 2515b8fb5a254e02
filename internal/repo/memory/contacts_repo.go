package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/contacthub/internal/domain/contact"
)

// ContactsRepo is an in-memory ContactStore with the same ownership and
// uniqueness semantics as the postgres repo. Used by handler tests.
type ContactsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]contact.Contact
}

func NewContactsRepo() *ContactsRepo {
	return &ContactsRepo{
		nextID: 1,
		items:  make(map[int64]contact.Contact),
	}
}

func (r *ContactsRepo) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// same backstop the unique index provides in postgres
	for _, existing := range r.items {
		if existing.UserID == c.UserID && strings.EqualFold(existing.Email, c.Email) {
			return contact.Contact{}, contact.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()

	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = now
	c.UpdatedAt = now

	r.items[c.ID] = c

	return c, nil
}

func (r *ContactsRepo) EmailExistsForUser(ctx context.Context, userID int64, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.UserID == userID && strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}

	return false, nil
}

func (r *ContactsRepo) ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contact.Contact, 0)

	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *ContactsRepo) GetByID(ctx context.Context, userID, id int64) (contact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]

	if !ok || c.UserID != userID {
		// not-owned must look exactly like nonexistent
		return contact.Contact{}, contact.ErrNotFound
	}

	return c, nil
}

func (r *ContactsRepo) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]

	if !ok || c.UserID != userID {
		return contact.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
