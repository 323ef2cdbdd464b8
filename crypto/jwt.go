package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quizroom/domain"
)

// sessionClaims carries the authenticated user id in the registered
// subject claim; nothing service-specific goes into the token body.
type sessionClaims struct {
	jwt.RegisteredClaims
}

type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *JWTManager) Generate(id string, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)

	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenGenerationError, err)
	}

	return signedToken, nil
}

func (m *JWTManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		// Only HMAC tokens are ever minted, so anything else (including
		// alg "none") is rejected before the key is handed out.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", domain.ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", domain.ErrCorruptedToken
		default:
			return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenVerificationError, err)
		}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", domain.ErrCorruptedToken
	}

	return claims.Subject, nil
}
