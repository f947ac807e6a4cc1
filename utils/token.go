package utils

import (
	"errors"
	"fmt"
	"time"

	"civic-jharkhand-be/models"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims binds a user id and role to a signed token.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// Identity is what a verified token asserts.
type Identity struct {
	UserID string
	Role   models.Role
}

type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return &TokenManager{secret: []byte(secret), issuer: "civic-jharkhand", ttl: ttl}, nil
}

// Issue generates an HS256 token for userID that expires after the manager's ttl.
func (tm *TokenManager) Issue(userID string, role models.Role) (string, error) {
	if userID == "" || !role.Valid() {
		return "", fmt.Errorf("user id and valid role required")
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			Issuer:    tm.issuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tm.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify checks signature and expiry. A token whose only fault is expiry
// returns ErrExpiredToken; every other failure returns ErrInvalidToken.
func (tm *TokenManager) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors == jwt.ValidationErrorExpired {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
