package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/geocoder89/contacthub/internal/config"
	"github.com/geocoder89/contacthub/internal/domain/user"
	"github.com/geocoder89/contacthub/internal/repo/postgres"
	"github.com/geocoder89/contacthub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, fullName string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

type AuthHandler struct {
	users UserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users UserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var validate = validator.New()

func isValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// Wrong-password and unknown-email must be byte-identical responses.
const invalidCredentialsMessage = "Invalid email or password."

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if utf8.RuneCountInString(req.FullName) < 3 {
		RespondBadRequest(ctx, "Full name must be at least 3 characters.")
		return
	}

	if !isValidEmail(req.Email) {
		RespondBadRequest(ctx, "Invalid email format.")
		return
	}

	if !security.IsStrongPassword(req.Password) {
		RespondBadRequest(ctx, "Password must be at least 8 characters, with at least one number and one uppercase letter.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// fast-path duplicate check; the unique index backstops the race
	taken, err := h.users.EmailExists(cctx, req.Email)

	if err != nil {
		RespondInternal(ctx, "Could not create user.")
		return
	}

	if taken {
		// kept as a 400 rather than 409 to preserve historical behavior
		RespondBadRequest(ctx, "Email is already in use.")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user.")
		return
	}

	_, err = h.users.Create(cctx, req.Email, hash, req.FullName)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondBadRequest(ctx, "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user.")
		return
	}

	RespondMessage(ctx, http.StatusOK, "Registration successful.")
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !isValidEmail(req.Email) {
		RespondBadRequest(ctx, "Invalid email format.")
		return
	}

	if strings.TrimSpace(req.Password) == "" {
		RespondBadRequest(ctx, "Password is required.")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// only an absent user reads as bad credentials; a storage
		// failure is not the caller's fault
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondUnauthorized(ctx, invalidCredentialsMessage)
			return
		}

		RespondInternal(ctx, "Could not log in.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, invalidCredentialsMessage)
		return
	}

	token, err := h.jwt.Issue(foundUser)

	if err != nil {
		RespondInternal(ctx, "Could not generate token.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Login successful.",
		"token":   token,
	})
}
