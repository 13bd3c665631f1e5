package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"unishop/internal/logger"
)

const sessionTTL = 24 * time.Hour

// Handler serves the auth endpoints.
type Handler struct {
	users    *Users
	validate *validator.Validate
}

// NewHandler creates the auth handler.
func NewHandler(users *Users) *Handler {
	return &Handler{users: users, validate: validator.New()}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nombre   string `json:"nombre"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token   string   `json:"token"`
	Email   string   `json:"email"`
	Nombre  string   `json:"nombre"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"isAdmin"`
}

func (h *Handler) session(user *User) (*sessionResponse, error) {
	token, err := IssueToken(user.Email, user.Nombre, user.Roles, sessionTTL)
	if err != nil {
		return nil, err
	}
	return &sessionResponse{
		Token:   token,
		Email:   user.Email,
		Nombre:  user.Nombre,
		Roles:   user.Roles,
		IsAdmin: HasRole(user.Roles, RoleAdmin),
	}, nil
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "email and a password of at least 6 characters are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Nombre)
	if errors.Is(err, ErrEmailTaken) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Errorf("Register: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp, err := h.session(user)
	if err != nil {
		logger.Errorf("Register session: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		logger.Errorf("Login: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp, err := h.session(user)
	if err != nil {
		logger.Errorf("Login session: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, claims *Claims) {
	user, err := h.users.Get(r.Context(), claims.Email)
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Errorf("Me: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	user.PasswordHash = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
