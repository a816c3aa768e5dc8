package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mymoneyapp/backend/internal/config"
	"github.com/mymoneyapp/backend/internal/domain/user"
	"github.com/mymoneyapp/backend/internal/observability"
	"github.com/mymoneyapp/backend/internal/repo/postgres"
	"github.com/mymoneyapp/backend/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(name, email string) (string, error)
	VerifyToken(raw string) bool
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	tokens     TokenIssuer
	prom       *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, tokens TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		tokens:     tokens,
		prom:       prom,
	}
}

// Request bodies carry no binding tags: a missing field is an empty string
// and flows into validation, which aggregates every problem into one reply
// instead of failing on the first absent field.

type SignUpRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	err := ctx.ShouldBindJSON(&req)

	if err != nil {
		RespondAuthErrors(ctx, err.Error())
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		h.count("signup", "error")
		RespondAuthErrors(ctx, err.Error())
		return
	}

	validationErrs := security.ValidateSignup(req.Email, req.Password, req.ConfirmPassword, hash)

	if validationErrs != nil {
		h.count("signup", "rejected")
		RespondAuthErrors(ctx, validationErrs...)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	_, err = h.users.GetByEmail(cctx, req.Email)

	if err == nil {
		h.count("signup", "rejected")
		RespondAuthErrors(ctx, "Usuário já cadastrado.")
		return
	}

	if !errors.Is(err, postgres.ErrUserNotFound) {
		// Lookup failures surface in the same 400 error list the clients
		// already understand rather than a 5xx. Inherited behavior.
		h.count("signup", "error")
		RespondAuthErrors(ctx, err.Error())
		return
	}

	_, err = h.userWriter.Create(cctx, req.Name, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			// lost the race against a concurrent signup for the same email
			h.count("signup", "rejected")
			RespondAuthErrors(ctx, "Usuário já cadastrado.")
			return
		}

		h.count("signup", "error")
		RespondAuthErrors(ctx, err.Error())
		return
	}

	h.count("signup", "ok")

	// a successful signup logs the user straight in
	h.loginWithCredentials(ctx, req.Email, req.Password)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	err := ctx.ShouldBindJSON(&req)

	if err != nil {
		RespondAuthErrors(ctx, err.Error())
		return
	}

	h.loginWithCredentials(ctx, req.Email, req.Password)
}

func (h *AuthHandler) ValidateToken(ctx *gin.Context) {
	var req ValidateTokenRequest

	// an unreadable body just means no token was presented;
	// this endpoint always answers 200
	_ = ctx.ShouldBindJSON(&req)

	valid := h.tokens.VerifyToken(req.Token)

	if valid {
		h.count("validate", "ok")
	} else {
		h.count("validate", "rejected")
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (h *AuthHandler) loginWithCredentials(ctx *gin.Context, email, password string) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, email)

	if err != nil && !errors.Is(err, postgres.ErrUserNotFound) {
		h.count("login", "error")
		RespondAuthErrors(ctx, err.Error())
		return
	}

	if err == nil && security.CheckPassword(foundUser.PasswordHash, password) == nil {
		token, err := h.tokens.GenerateToken(foundUser.Name, foundUser.Email)

		if err != nil {
			// signing only fails when the process is misconfigured
			h.count("login", "error")
			RespondAuthErrors(ctx, err.Error())
			return
		}

		h.count("login", "ok")

		ctx.JSON(http.StatusOK, gin.H{
			"name":  foundUser.Name,
			"email": foundUser.Email,
			"token": token,
		})
		return
	}

	// unknown email and wrong password answer identically so the endpoint
	// cannot be used to probe which emails are registered
	h.count("login", "rejected")
	RespondInvalidCredentials(ctx)
}

func (h *AuthHandler) count(op, result string) {
	if h.prom != nil {
		h.prom.CountAuth(op, result)
	}
}
