package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/anonto42/nano-midea/social/pkg/firebase"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and token issuance
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   firebase.TokenVerifier
	jwtSecret      string
	jwtTTL         time.Duration
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which disables firebase login.
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuth firebase.TokenVerifier, jwtSecret string, jwtTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuth,
		jwtSecret:      jwtSecret,
		jwtTTL:         jwtTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/logout", h.Logout)
	g.POST("/auth/firebase-login", h.FirebaseLogin)
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a local account with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return services.Conflict("a user with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return services.Internal(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return services.Internal(err)
	}

	user := &models.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Password:  string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return services.Internal(err)
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret, h.jwtTTL)
	if err != nil {
		return services.Internal(err)
	}
	middleware.LoggerFrom(c).Info().Uint("user_id", user.ID).Msg("user registered")
	return success(c, http.StatusCreated, authResponse{User: user, Token: token})
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.Unauthenticated("invalid email or password")
		}
		return services.Internal(err)
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return services.Unauthenticated("invalid email or password")
	}
	if !user.IsActive() {
		return services.Unauthenticated("account is not active")
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret, h.jwtTTL)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, authResponse{User: user, Token: token})
}

// Logout is an acknowledgement only; tokens are stateless and expire on their own
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := middleware.RequireUser(c); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Logged out successfully")
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, links or creates the local user and issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Firebase login is not enabled")
	}
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return services.Unauthenticated("invalid Firebase ID token")
	}
	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	displayName, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	switch {
	case err == nil:
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return services.Internal(err)
	case email == "":
		return services.BadInput("Firebase account has no email address")
	default:
		user, err = h.linkOrCreate(c, token.UID, email, displayName)
		if err != nil {
			return err
		}
	}
	if !user.IsActive() {
		return services.Unauthenticated("account is not active")
	}

	localJWT, err := middleware.GenerateToken(user, h.jwtSecret, h.jwtTTL)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, authResponse{User: user, Token: localJWT})
}

// linkOrCreate attaches uid to the account with the same email, or creates a new one
func (h *AuthHandler) linkOrCreate(c echo.Context, uid, email, displayName string) (*models.User, error) {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		user.FirebaseUID = &uid
		if err := h.userRepository.UpdateUser(ctx, user); err != nil {
			return nil, services.Internal(err)
		}
		middleware.LoggerFrom(c).Info().Uint("user_id", user.ID).Msg("firebase account linked")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.Internal(err)
	}

	first, last := splitName(displayName, email)
	user = &models.User{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		FirebaseUID: &uid,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, services.Internal(err)
	}
	middleware.LoggerFrom(c).Info().Uint("user_id", user.ID).Msg("user created from firebase login")
	return user, nil
}

// splitName breaks a display name into first and last parts, falling back to the email's local part
func splitName(displayName, email string) (string, string) {
	parts := strings.Fields(displayName)
	switch len(parts) {
	case 0:
		local, _, _ := strings.Cut(email, "@")
		return local, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
