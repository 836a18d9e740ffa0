package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	usermetrics "clearusers/internal/user/metrics"
	"clearusers/internal/user/models"
	"clearusers/internal/user/validation"
	"clearusers/pkg/paging"
	"clearusers/pkg/platform/sentinel"
	"clearusers/pkg/platform/tx"
	"clearusers/pkg/problem"
	"clearusers/pkg/requestcontext"
)

// UserService implements the user lifecycle operations.
type UserService struct {
	store   UserStore
	tx      tx.Runner
	metrics *usermetrics.Metrics
	minAge  int
}

// New constructs a UserService. Mutating operations run inside the given
// transaction runner so read-modify-write sequences cannot interleave.
func New(store UserStore, runner tx.Runner, cfg Config, opts ...Option) *UserService {
	sc := &serviceConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	return &UserService{
		store:   store,
		tx:      runner,
		metrics: sc.metrics,
		minAge:  cfg.MinAge,
	}
}

// CreateUser validates the request, enforces the age-eligibility rule, and
// persists the new record. Structural validation runs first and collects
// every violation; the age rule only fires on structurally valid input.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	if problems := validation.ValidateCreate(req, now); len(problems) > 0 {
		return nil, problem.FailedValidation(problems...)
	}

	user, err := req.ToUser()
	if err != nil {
		return nil, fmt.Errorf("convert create request: %w", err)
	}

	if age := user.BirthDate.AgeAt(now); age < s.minAge {
		return nil, problem.YoungAge(user.BirthDate.String())
	}

	var created *models.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		saved, err := s.store.Create(txCtx, user)
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return problem.ConstraintViolation(err)
			}
			return fmt.Errorf("create user: %w", err)
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementUsersCreated()
	s.metrics.ObserveCreate(start)
	return created, nil
}

// GetAllUsers returns one page of users. Read-only, so no explicit
// transaction boundary beyond what the store provides.
func (s *UserService) GetAllUsers(ctx context.Context, page paging.PageRequest) (paging.Page[models.User], error) {
	start := time.Now()
	result, err := s.store.List(ctx, page)
	if err != nil {
		return paging.Page[models.User]{}, fmt.Errorf("list users: %w", err)
	}
	s.metrics.ObserveList(start)
	return result, nil
}

// UpdateUser applies a partial update to an existing record: present fields
// overwrite, absent fields retain their prior values. The read-modify-write
// sequence runs inside one transaction.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	now := requestcontext.Now(ctx)

	if problems := validation.ValidateUpdate(req, now); len(problems) > 0 {
		return nil, problem.FailedValidation(problems...)
	}

	var updated *models.User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.store.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return problem.UserNotFound(id)
			}
			return fmt.Errorf("find user %d: %w", id, err)
		}

		if err := req.ApplyTo(existing); err != nil {
			return fmt.Errorf("apply update to user %d: %w", id, err)
		}

		saved, err := s.store.Update(txCtx, existing)
		if err != nil {
			switch {
			case errors.Is(err, sentinel.ErrConflict):
				return problem.ConstraintViolation(err)
			case errors.Is(err, sentinel.ErrNotFound):
				return problem.UserNotFound(id)
			}
			return fmt.Errorf("update user %d: %w", id, err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser removes the record with the given identifier, failing when it
// does not exist.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Delete(txCtx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return problem.UserNotFound(id)
			}
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncrementUsersDeleted()
	return nil
}

// SearchUsersByBirthDate returns one page of users born within [from, to].
// The from bound must lie strictly before the to bound; equal bounds are
// rejected.
func (s *UserService) SearchUsersByBirthDate(ctx context.Context, from, to models.Date, page paging.PageRequest) (paging.Page[models.User], error) {
	start := time.Now()

	if !from.Before(to) {
		return paging.Page[models.User]{}, problem.IllegalRange(from.String(), to.String())
	}

	result, err := s.store.FindByBirthDateBetween(ctx, from, to, page)
	if err != nil {
		return paging.Page[models.User]{}, fmt.Errorf("search users by birth date: %w", err)
	}
	s.metrics.ObserveSearch(start)
	return result, nil
}
