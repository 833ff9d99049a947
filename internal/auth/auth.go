package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	dasherr "github.com/kapu/youtube-dashboard-go/pkg/errors"
)

// TokenTTL is how long an issued dashboard token stays valid.
const TokenTTL = 24 * time.Hour

// TokenService issues and verifies the dashboard's bearer tokens. One shared
// password gates access; a successful login yields a signed token good for
// TokenTTL.
type TokenService struct {
	password string
	secret   []byte
	logger   *zap.Logger

	now func() time.Time
}

func NewTokenService(password, secret string, logger *zap.Logger) *TokenService {
	return &TokenService{
		password: password,
		secret:   []byte(secret),
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the password and returns a signed token on success.
func (ts *TokenService) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(ts.password)) != 1 {
		ts.logger.Warn("Login rejected")
		return "", dasherr.NewAuthError("invalid password")
	}

	now := ts.now()
	claims := jwt.RegisteredClaims{
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", dasherr.NewAuthError("failed to sign token")
	}

	ts.logger.Info("Login accepted", zap.Duration("ttl", TokenTTL))
	return signed, nil
}

// Verify checks a token's signature and expiry.
func (ts *TokenService) Verify(tokenString string) error {
	if tokenString == "" {
		return dasherr.NewAuthError("missing token")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return ts.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(ts.now))
	if err != nil || !token.Valid {
		return dasherr.NewAuthError("invalid or expired token")
	}

	return nil
}
