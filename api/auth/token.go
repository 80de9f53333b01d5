package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// TokenTTL is how long an admin session token stays valid.
var TokenTTL = 7 * 24 * time.Hour

var errMissingSecret = errors.New("API_SECRET is not set")

func secret() ([]byte, error) {
	s := os.Getenv("API_SECRET")
	if s == "" {
		return nil, errMissingSecret
	}
	return []byte(s), nil
}

func CreateToken(id uint) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["id"] = id
	claims["exp"] = time.Now().Add(TokenTTL).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func parse(r *http.Request) (*jwt.Token, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return nil, errors.New("missing token")
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
}

// ExtractToken reads the token from the "token" query parameter or the
// Authorization bearer header.
func ExtractToken(r *http.Request) string {
	keys := r.URL.Query()
	token := keys.Get("token")
	if token != "" {
		return token
	}
	bearerToken := r.Header.Get("Authorization")
	if parts := strings.Split(bearerToken, " "); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func ExtractTokenID(r *http.Request) (uint, error) {
	token, err := parse(r)
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	uid, err := strconv.ParseUint(fmt.Sprintf("%.0f", claims["id"]), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(uid), nil
}
