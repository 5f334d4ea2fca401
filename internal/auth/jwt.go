package auth

import (
	"errors"
	"time"

	"vendora/config"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	StoreID uint   `json:"store_id"`
	Slug    string `json:"slug"`
	jwt.RegisteredClaims
}

func GenerateToken(cfg *config.JWTConfig, storeID uint, slug string) (string, error) {
	claims := Claims{
		StoreID: storeID,
		Slug:    slug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

var ErrInvalidToken = errors.New("invalid token")

func ParseToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
