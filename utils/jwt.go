package utils

import (
	"errors"
	"time"

	"slotwise/models"

	"github.com/golang-jwt/jwt/v4"
)

// ActorClaims are the identity claims the scheduling core consumes.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for subject with the given role.
// Token issuance belongs to the auth service; this is used by tooling and tests.
func GenerateToken(secret []byte, subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseActorToken validates tokenString and returns the actor it identifies.
func ParseActorToken(secret []byte, tokenString string) (models.Actor, error) {
	claims := &ActorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return models.Actor{}, err
	}
	if !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}
	if !models.ValidRole(claims.Role) {
		return models.Actor{}, errors.New("token does not contain a valid 'role' claim")
	}
	return models.Actor{UserID: claims.Subject, Role: claims.Role}, nil
}
