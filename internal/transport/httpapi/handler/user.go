package handler

import (
	"net/http"

	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// UserHandler handles admin user management
type UserHandler struct {
	userService UserServiceInterface
	log         *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserServiceInterface, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	out := make([]*UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, toUserInfo(u))
	}

	respondJSON(w, map[string]interface{}{"users": out}, http.StatusOK)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	actor := callerID(r)
	if actor == nil {
		respondAppError(w, r, h.log, apperr.Unauthorized("unauthorized"))
		return
	}

	if err := h.userService.Delete(r.Context(), id, *actor); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
