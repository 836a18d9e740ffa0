// Package handler exposes the user lifecycle over HTTP. Every failure leaves
// through httputil.WriteError so all endpoints share one problem payload.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clearusers/internal/user/models"
	"clearusers/pkg/paging"
	"clearusers/pkg/platform/httputil"
	"clearusers/pkg/requestcontext"
)

// Service defines the user operations the handler dispatches to.
type Service interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetAllUsers(ctx context.Context, page paging.PageRequest) (paging.Page[models.User], error)
	UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	SearchUsersByBirthDate(ctx context.Context, from, to models.Date, page paging.PageRequest) (paging.Page[models.User], error)
}

// Handler wires user endpoints to the user service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a user handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/birthdays", h.HandleSearchByBirthDate)
		r.Put("/{userId}", h.HandleUpdate)
		r.Delete("/{userId}", h.HandleDelete)
	})
}

// HandleCreate handles POST /users requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req models.CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "user creation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user created",
		"request_id", requestID,
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromUser(*user))
}

// HandleList handles GET /users requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	page, err := paging.FromQuery(r.URL.Query(), models.SortableFields)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	users, err := h.service.GetAllUsers(ctx, page)
	if err != nil {
		h.logger.ErrorContext(ctx, "user listing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "users listed",
		"request_id", requestID,
		"page", page.Page,
		"size", page.Size,
		"total", users.TotalElements,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, paging.Map(users, FromUser))
}

// HandleSearchByBirthDate handles GET /users/birthdays requests.
func (h *Handler) HandleSearchByBirthDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	from, err := dateParam(r, "from")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	page, err := paging.FromQuery(r.URL.Query(), models.SortableFields)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	users, err := h.service.SearchUsersByBirthDate(ctx, from, to, page)
	if err != nil {
		h.logger.WarnContext(ctx, "birth date search rejected",
			"request_id", requestID,
			"from", from.String(),
			"to", to.String(),
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "users searched by birth date",
		"request_id", requestID,
		"from", from.String(),
		"to", to.String(),
		"total", users.TotalElements,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, paging.Map(users, FromUser))
}

// HandleUpdate handles PUT /users/{userId} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	id, err := userIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	var req models.UpdateUserRequest
	if err := decodeBody(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	user, err := h.service.UpdateUser(ctx, id, req)
	if err != nil {
		h.logger.WarnContext(ctx, "user update rejected",
			"request_id", requestID,
			"user_id", id,
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user updated",
		"request_id", requestID,
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromUser(*user))
}

// HandleDelete handles DELETE /users/{userId} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	id, err := userIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	if err := h.service.DeleteUser(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "user deletion rejected",
			"request_id", requestID,
			"user_id", id,
			"error", err,
		)
		httputil.WriteError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "user deleted",
		"request_id", requestID,
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	w.WriteHeader(http.StatusOK)
}
