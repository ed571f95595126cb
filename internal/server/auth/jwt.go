// Package auth mints and parses the HS256 tokens used by the API: owner
// access tokens and short-lived nominee emergency-access tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. A token is only accepted by the parser of its own scope.
const (
	ScopeOwner   = "owner"
	ScopeNominee = "nominee"
)

// Claims holds the registered claims plus the subject identity. Owner tokens
// carry UserID, nominee tokens carry the nominee Email.
type Claims struct {
	jwt.RegisteredClaims
	Scope  string `json:"scope"`
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
}

func sign(claims Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validityDuration))
	claims.IssuedAt = jwt.NewNumericDate(time.Now())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// GenerateToken mints an owner access token for userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(Claims{Scope: ScopeOwner, UserID: userID}, secretKey, validityDuration)
}

// GenerateNomineeToken mints an emergency-access token for a nominee who
// passed OTP verification.
func GenerateNomineeToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return sign(Claims{Scope: ScopeNominee, Email: email}, secretKey, validityDuration)
}

func parse(tokenString string, secretKey []byte, scope string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Scope != scope {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken validates an owner token and returns its user ID.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey, ScopeOwner)
	if err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// GetNomineeEmailFromToken validates a nominee token and returns the email it
// was minted for.
func GetNomineeEmailFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey, ScopeNominee)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Email, nil
}
