package domain

import "errors"

var (
	UnexpectedStoreError = errors.New("store-error")
)

var (
	ErrDuplicateEmail    = errors.New("email-already-exists")
	ErrUserNotFound      = errors.New("user-not-found")
	ErrIncorrectPassword = errors.New("incorrect-password")
)

var (
	UnexpectedTokenGenerationError   = errors.New("token-generation-error")
	UnexpectedTokenVerificationError = errors.New("token-verification-error")
	ErrInvalidSigningAlg             = errors.New("invalid-signing-alg")
	ErrExpiredToken                  = errors.New("expired-token")
	ErrInvalidTokenSignature         = errors.New("invalid-token-signature")
	ErrCorruptedToken                = errors.New("corrupted-token")
)

var UnexpectedHashingError = errors.New("hashing-error")
