package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies the short-lived tokens kiosk front ends use to
// call the decision API. There are no human user accounts on this surface.
type Service interface {
	GenerateKioskToken(kioskID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey           string
	tokenExpirationTime string
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, tokenExpirationTime string) Service {
	return &JWTService{
		secretKey:           secretKey,
		tokenExpirationTime: tokenExpirationTime,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateKioskToken(kioskID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.tokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"kiosk_id": kioskID,
		"type":     "kiosk",
		"exp":      expiresAt,
	})
	return tokenString, expiresAt, err
}
