// Package store provides the user record store implementations: an
// in-memory store for tests and local development, and a PostgreSQL store
// for production.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"clearusers/internal/user/models"
	"clearusers/pkg/paging"
	"clearusers/pkg/platform/sentinel"
)

// MemoryStore keeps user records in a mutex-guarded map. Identifiers are
// assigned from a monotonically increasing counter and never reused, even
// after deletion.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	nextID int64
}

// NewMemoryStore returns an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]models.User)}
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, fmt.Errorf("email '%s' is already used: %w", user.Email, sentinel.ErrConflict)
		}
	}

	s.nextID++
	saved := *user
	saved.ID = s.nextID
	s.users[saved.ID] = saved

	return &saved, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return nil, fmt.Errorf("email '%s' is already used: %w", user.Email, sentinel.ErrConflict)
		}
	}

	saved := *user
	s.users[saved.ID] = saved
	return &saved, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, page paging.PageRequest) (paging.Page[models.User], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	return slicePage(all, page), nil
}

func (s *MemoryStore) FindByBirthDateBetween(_ context.Context, from, to models.Date, page paging.PageRequest) (paging.Page[models.User], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.User
	for _, user := range s.users {
		// Bounds are inclusive on both ends.
		if from.Before(user.BirthDate) || from.Equal(user.BirthDate) {
			if user.BirthDate.Before(to) || user.BirthDate.Equal(to) {
				matched = append(matched, user)
			}
		}
	}
	return slicePage(matched, page), nil
}

func slicePage(all []models.User, page paging.PageRequest) paging.Page[models.User] {
	sortUsers(all, page.Sort)

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}

	return paging.NewPage(all[start:end], total, page)
}

// sortUsers applies the sort keys in order, falling back to ascending id so
// pagination stays stable when no keys are supplied.
func sortUsers(users []models.User, keys []paging.SortKey) {
	sort.SliceStable(users, func(i, j int) bool {
		for _, key := range keys {
			cmp := compareField(users[i], users[j], key.Field)
			if cmp == 0 {
				continue
			}
			if key.Descending() {
				return cmp > 0
			}
			return cmp < 0
		}
		return users[i].ID < users[j].ID
	})
}

func compareField(a, b models.User, field string) int {
	switch field {
	case "firstName":
		return strings.Compare(a.FirstName, b.FirstName)
	case "lastName":
		return strings.Compare(a.LastName, b.LastName)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "birthDate":
		return strings.Compare(a.BirthDate.String(), b.BirthDate.String())
	default:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
}
