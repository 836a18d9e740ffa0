// Package service orchestrates the user lifecycle: structural validation,
// business rules, and store access, with every failure normalized to the
// pkg/problem taxonomy before it leaves this layer.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore

import (
	"context"

	usermetrics "clearusers/internal/user/metrics"
	"clearusers/internal/user/models"
	"clearusers/pkg/paging"
)

// UserStore is the record store contract. Implementations report facts via
// pkg/platform/sentinel errors: ErrNotFound for a missing identifier and
// ErrConflict (wrapped with the underlying cause) for a uniqueness
// violation. Sorting and pagination are executed by the store; the service
// forwards the page specification unchanged.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page paging.PageRequest) (paging.Page[models.User], error)
	FindByBirthDateBetween(ctx context.Context, from, to models.Date, page paging.PageRequest) (paging.Page[models.User], error)
}

// Config carries the business-rule thresholds, supplied explicitly at
// construction.
type Config struct {
	// MinAge is the minimum age in completed years required to register.
	MinAge int
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

type serviceConfig struct {
	metrics *usermetrics.Metrics
}

// WithMetrics attaches module metrics to the service.
func WithMetrics(m *usermetrics.Metrics) Option {
	return func(cfg *serviceConfig) {
		cfg.metrics = m
	}
}
