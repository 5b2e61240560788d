package jwt

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTClaim struct {
	Address string `json:"address"`
	UserId  uint   `json:"user_id"`
	jwt.RegisteredClaims
}

func GenerateJWT(address string, userId uint) (token string, err error) {

	var claims = JWTClaim{
		address,
		userId,
		jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	resToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	signedToken, err := resToken.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func ValidateToken(signedToken string) (address string, userId uint, err error) {
	token, err := jwt.ParseWithClaims(signedToken, &JWTClaim{}, func(t *jwt.Token) (interface{}, error) { return []byte(os.Getenv("JWT_SECRET")), nil })
	if err != nil {
		return "", 0, err
	}
	claims, ok := token.Claims.(*JWTClaim)
	if !ok {
		return "", 0, errors.New("error parsing claims")
	}
	if claims.Address == "" || claims.UserId == 0 {
		return "", 0, errors.New("malformed data")
	}

	return claims.Address, claims.UserId, nil
}
