package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quizroom/domain"
)

var (
	ErrMissingTokenStr         = "missing-token"
	ErrExpiredTokenStr         = "expired-token"
	ErrInvalidTokenStr         = "invalid-token"
	ErrInvalidRequestFormatStr = "invalid-request-format"
	ErrInvalidCredentialsStr   = "invalid-credentials"
	ErrServerTimeoutStr        = "server-timeout"
	ErrUnknownStr              = "unknown-error"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, name string) (domain.UserProfile, error)
	Login(ctx context.Context, email, password string) (string, domain.UserProfile, error)
	Resolve(token string) (string, error)
}

type Handler struct {
	authService AuthService
	log         zerolog.Logger
}

func NewHandler(service AuthService, log zerolog.Logger) *Handler {
	return &Handler{authService: service, log: log}
}

// RequireAuth resolves the bearer token and stores the user id under "id"
// for downstream handlers.
func (ah *Handler) RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingTokenStr})
			return
		}

		id, err := ah.authService.Resolve(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrExpiredTokenStr})
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken):
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidTokenStr})
			default:
				ah.log.Error().Err(err).Str("ip", ctx.ClientIP()).Msg("token verification failed")
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
			}
			return
		}

		ctx.Set("id", id)
		ctx.Next()
	}
}

func (ah *Handler) SignupHandler(ctx *gin.Context) {
	var signupCredentials struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&signupCredentials); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}

	user, err := ah.authService.Signup(ctx.Request.Context(), signupCredentials.Email, signupCredentials.Password, signupCredentials.Name)

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})

		case errors.Is(err, ErrWeakPassword),
			errors.Is(err, ErrPasswordTooLong),
			errors.Is(err, ErrInvalidEmailFormat),
			errors.Is(err, ErrMissingName):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		case errors.Is(err, context.DeadlineExceeded):
			ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": ErrServerTimeoutStr})

		case errors.Is(err, context.Canceled):
			ctx.Status(499) // http code for "Client Closed Request"

		default:
			ah.log.Error().Err(err).Msg("signup failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (ah *Handler) LoginHandler(ctx *gin.Context) {
	var loginCredentials struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&loginCredentials); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}

	token, user, err := ah.authService.Login(ctx.Request.Context(), loginCredentials.Email, loginCredentials.Password)

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrIncorrectPassword):
			// Same answer for both, so login cannot probe which emails exist.
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentialsStr})

		case errors.Is(err, context.DeadlineExceeded):
			ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": ErrServerTimeoutStr})

		case errors.Is(err, context.Canceled):
			ctx.Status(499)

		default:
			ah.log.Error().Err(err).Msg("login failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
