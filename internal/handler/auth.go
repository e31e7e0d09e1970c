package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"fixmycity/internal/config"
	"fixmycity/internal/httputil"
	"fixmycity/internal/model"
	"fixmycity/internal/repository"
)

// AuthHandler serves /auth. Errors use the {"msg": ...} shape.
type AuthHandler struct {
	users      repository.UserRepository
	config     *config.Config
	bcryptCost int
	logger     zerolog.Logger
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(users repository.UserRepository, cfg *config.Config, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		config:     cfg,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.With().Str("component", "AuthHandler").Logger(),
	}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func (h *AuthHandler) WithBcryptCost(cost int) *AuthHandler {
	h.bcryptCost = cost
	return h
}

// Register handles user sign-up
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.NRC == "" {
		httputil.WriteMsg(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Password) < 6 {
		httputil.WriteMsg(w, http.StatusBadRequest, "Password should be at least 6 characters long")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("hash password FAILED")
		httputil.WriteMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	now := time.Now().UTC()
	record := &repository.UserRecord{
		Profile: model.UserProfile{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			NRC:       req.NRC,
			CreatedAt: &now,
		},
		PasswordHash: hashed,
	}

	if err := h.users.Create(r.Context(), record); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			httputil.WriteMsg(w, http.StatusBadRequest, "Email already exists")
			return
		}
		h.logger.Error().Err(err).Msg("create user FAILED")
		httputil.WriteMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeAuth(w, http.StatusCreated, record.Profile)
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.WriteMsg(w, http.StatusBadRequest, "All fields are required")
		return
	}

	record, err := h.users.GetByEmail(r.Context(), req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(record.PasswordHash, []byte(req.Password))
	}
	if err != nil {
		h.logger.Debug().Str("email", req.Email).Msg("Login rejected")
		httputil.WriteMsg(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.writeAuth(w, http.StatusOK, record.Profile)
}

func (h *AuthHandler) writeAuth(w http.ResponseWriter, status int, user model.UserProfile) {
	token, err := h.generateAccessToken(user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("sign token FAILED")
		httputil.WriteMsg(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info().Str("user_id", user.ID).Int("status", status).Msg("token issued")
	httputil.WriteJSON(w, status, model.AuthResponse{Token: token, User: &user})
}

func (h *AuthHandler) generateAccessToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(h.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(h.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}
