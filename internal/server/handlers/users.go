package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/atolz-bro/usermanagementservice/internal/models"
	"github.com/atolz-bro/usermanagementservice/internal/server/httpx"
	"github.com/atolz-bro/usermanagementservice/internal/server/storage"
	"github.com/atolz-bro/usermanagementservice/internal/validation"
	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// UserDeletedMessage is the plain text body of a successful DELETE.
const UserDeletedMessage = "User Deleted"

// PasswordHasher hashes new user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserHandler обрабатывает CRUD запросы пользователей
type UserHandler struct {
	logger *slog.Logger
	store  storage.UserStorage
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, store storage.UserStorage, hasher PasswordHasher) *UserHandler {
	return &UserHandler{
		logger: logger,
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

// Create обрабатывает POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create user request", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateNewUser(req.Username, req.Password, req.Email, req.Role); err != nil {
		h.logger.WarnContext(ctx, "invalid create user request", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Role:         req.Role,
		CreatedAt:    h.now().UTC(),
	}

	if err := h.store.Save(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "username already exists", slog.String("username", req.Username))
			httpx.Error(w, h.logger, http.StatusConflict, "username already exists")
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", user.Role),
	)

	httpx.JSON(w, h.logger, http.StatusOK, user)
}

// Get обрабатывает GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	user, err := h.store.FindByID(ctx, id)
	if err != nil {
		h.storeError(w, r, err, "failed to get user")
		return
	}

	httpx.JSON(w, h.logger, http.StatusOK, user)
}

// Update обрабатывает PUT /api/users/{id}
// Обновляет username, email и role; пустые поля сохраняют текущее значение
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req api.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update user request", slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.MaxLen(
		validation.Field{Name: "username", Value: req.Username},
		validation.Field{Name: "email", Value: req.Email},
		validation.Field{Name: "role", Value: req.Role},
	); err != nil {
		httpx.Error(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.FindByID(ctx, id)
	if err != nil {
		h.storeError(w, r, err, "failed to get user")
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	now := h.now().UTC()
	user.UpdatedAt = &now

	if err := h.store.Save(ctx, user); err != nil {
		h.storeError(w, r, err, "failed to update user")
		return
	}

	h.logger.InfoContext(ctx, "user updated", slog.Int64("id", user.ID))

	httpx.JSON(w, h.logger, http.StatusOK, user)
}

// Delete обрабатывает DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	exists, err := h.store.ExistsByID(ctx, id)
	if err != nil {
		h.storeError(w, r, err, "failed to check user")
		return
	}
	if !exists {
		httpx.Error(w, h.logger, http.StatusNotFound, storage.ErrUserNotFound.Error())
		return
	}

	// Пользователь мог быть удален между проверкой и удалением
	if err := h.store.DeleteByID(ctx, id); err != nil {
		h.storeError(w, r, err, "failed to delete user")
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.Int64("id", id))

	httpx.Text(w, http.StatusOK, UserDeletedMessage)
}

// pathID разбирает {id}; нечисловой id не может существовать, поэтому 404
func (h *UserHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, h.logger, http.StatusNotFound, storage.ErrUserNotFound.Error())
		return 0, false
	}
	return id, true
}

// storeError отображает ошибки хранилища на HTTP статусы
func (h *UserHandler) storeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		httpx.Error(w, h.logger, http.StatusNotFound, storage.ErrUserNotFound.Error())
	case errors.Is(err, storage.ErrUserAlreadyExists):
		httpx.Error(w, h.logger, http.StatusConflict, "username already exists")
	default:
		h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
		httpx.Error(w, h.logger, http.StatusInternalServerError, "internal server error")
	}
}
