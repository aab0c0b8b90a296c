package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims porte l'id de l'utilisateur ; iat sert à invalider les tokens
// émis avant un changement de mot de passe.
type TokenClaims struct {
	ID int64 `json:"id"`
	jwt.RegisteredClaims
}

func GenerateJWT(secret string, ttl time.Duration, userID int64) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET manquant")
	}
	now := time.Now()
	claims := TokenClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT vérifie la signature HMAC et l'expiration.
func ParseJWT(secret, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID <= 0 {
		return nil, errors.New("token invalide")
	}
	return claims, nil
}
