package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/beaconhq/beacon/internal/api/dto"
	"github.com/beaconhq/beacon/internal/api/middleware"
	"github.com/beaconhq/beacon/internal/auth"
	"github.com/beaconhq/beacon/internal/config"
	"github.com/beaconhq/beacon/internal/domain/user"
	"github.com/beaconhq/beacon/internal/pkg/errors"
	"github.com/beaconhq/beacon/internal/pkg/logger"
	"github.com/beaconhq/beacon/internal/pkg/utils"
	"github.com/beaconhq/beacon/internal/pkg/validator"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// Register handles user registration
// @Summary Register user
// @Description Create a new user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.userService.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to register user")
		return
	}

	h.writeTokens(w, http.StatusCreated, u)
}

// Login handles user login
// @Summary User login
// @Description Authenticate user with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	u, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteAppError(w, err, "Invalid credentials")
		return
	}

	h.writeTokens(w, http.StatusOK, u)
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a fresh token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse "New token pair"
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	claims, err := auth.ParseClaims(req.RefreshToken, h.config.Auth.JWTSecret)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	h.writeTokens(w, http.StatusOK, u)
}

// Me returns the authenticated user
// @Summary Current user
// @Description Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserDTO "User profile"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get user")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.UserDTO{
		ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role,
	})
}

func (h *AuthHandler) writeTokens(w http.ResponseWriter, status int, u *user.User) {
	pair, err := auth.MintTokens(
		u.ID, u.Email, h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry, h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		utils.WriteError(w, errors.Internal("Failed to issue tokens", err))
		return
	}

	utils.WriteSuccess(w, status, dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: &dto.UserDTO{
			ID: u.ID, Email: u.Email, Username: u.Username, Role: u.Role,
		},
	})
}
