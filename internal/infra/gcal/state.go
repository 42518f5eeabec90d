package gcal

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const stateTTL = 15 * time.Minute

type stateClaims struct {
	CompanyID string `json:"companyId"`
	jwt.RegisteredClaims
}

// SignState gera o parâmetro state do OAuth amarrado à empresa.
func SignState(secret, companyID string, now time.Time) (string, error) {
	claims := stateClaims{
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "gcal-connect",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseState(secret, state string) (string, error) {
	claims := &stateClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid state")
	}
	if claims.Subject != "gcal-connect" || claims.CompanyID == "" {
		return "", errors.New("invalid state")
	}
	return claims.CompanyID, nil
}
