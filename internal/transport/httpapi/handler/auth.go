package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/warungku/internal/platform/user"
	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// UserServiceInterface defines the user operations needed by AuthHandler and UserHandler
type UserServiceInterface interface {
	Register(ctx context.Context, username, password string, role user.Role) (*user.User, error)
	Login(ctx context.Context, username, password string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error
}

// JWTServiceInterface defines the interface for JWT operations
type JWTServiceInterface interface {
	GenerateToken(u *user.User) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		log:         log,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo represents user information (without sensitive data)
type UserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        user.Role  `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserInfo(u *user.User) *UserInfo {
	return &UserInfo{
		ID:          u.ID.String(),
		Username:    u.Username,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// Register handles POST /auth/register (admin only)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		respondAppError(w, r, h.log, apperr.Validation("username and password are required"))
		return
	}

	role, err := user.ParseRole(req.Role)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	registered, err := h.userService.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, toUserInfo(registered), http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		respondAppError(w, r, h.log, apperr.Validation("username and password are required"))
		return
	}

	authenticated, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	token, err := h.jwtService.GenerateToken(authenticated)
	if err != nil {
		respondAppError(w, r, h.log, apperr.Internal("failed to generate token", err))
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		User:  toUserInfo(authenticated),
	}, http.StatusOK)
}

// Verify handles GET /auth/verify and returns the token's user
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := callerID(r)
	if id == nil {
		respondAppError(w, r, h.log, apperr.Unauthorized("unauthorized"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), *id)
	if err != nil {
		// a token for a deleted user is no longer valid
		if apperr.CodeOf(err) == apperr.ErrCodeNotFound {
			err = apperr.Unauthorized("user no longer exists")
		}
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, map[string]interface{}{"user": toUserInfo(u)}, http.StatusOK)
}
