package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/ojt-tracker/internal/models"
	"gorm.io/gorm"
)

const rememberIssuer = "ojt-tracker"

// SignRememberToken wraps a stored remember token in an HS256 JWT whose
// subject is the user id. The cookie value is the signed string.
func SignRememberToken(secret string, userID uint64, token string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    rememberIssuer,
		Subject:   strconv.FormatUint(userID, 10),
		ID:        token,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ResolveRememberToken verifies a remember cookie and returns its active user.
// The token inside must still match the one stored on the user row.
func ResolveRememberToken(db *gorm.DB, secret, signed string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(rememberIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, newError(ErrUnauthenticated, "Invalid remember token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, newError(ErrUnauthenticated, "Invalid remember token")
	}

	var user models.User
	err = db.Where("id = ? AND remember_token = ? AND is_active = ?", userID, claims.ID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthenticated, "Remember token revoked")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
