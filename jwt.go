package ginblog

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const sessionIssuer = "ginblog"

var ErrInvalidSession = errors.New("session token is invalid")

type SessionClaims struct {
	jwt.StandardClaims
}

// GenerateSessionToken signs a token identifying userID for duration.
func GenerateSessionToken(userID int64, secretKey string, duration time.Duration) (string, error) {
	if secretKey == "" {
		return "", errors.New("session secret is not configured")
	}
	now := time.Now()
	claims := &SessionClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			Id:        uuid.New().String(),
			IssuedAt:  now.Unix(),
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ParseSessionToken verifies the signature and expiry and returns the user id.
func ParseSessionToken(tokenString, secretKey string) (int64, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}
	if claims.Issuer != sessionIssuer {
		return 0, ErrInvalidSession
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return 0, ErrInvalidSession
	}
	return userID, nil
}
