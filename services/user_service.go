package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/srad/techhub/conf"
	"github.com/srad/techhub/database"
	"github.com/srad/techhub/models/requests"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 24 * time.Hour

var (
	ErrAuthDisabled       = errors.New("authentication is not configured")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

func secret() ([]byte, error) {
	if conf.AppCfg.Secret == "" {
		return nil, ErrAuthDisabled
	}
	return []byte(conf.AppCfg.Secret), nil
}

func CreateUser(auth requests.AuthenticationRequest) error {
	if err := database.ExistsUsername(auth.Username); err != nil {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(auth.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return database.CreateUser(&database.User{
		Username: auth.Username,
		Password: string(passwordHash),
	})
}

// AuthenticateUser returns a signed JWT if the credentials match.
func AuthenticateUser(auth requests.AuthenticationRequest) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	user, err := database.FindUserByUsername(auth.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(auth.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.UserID,
		"username": user.Username,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a bearer token and returns the user id it carries.
func ParseToken(tokenString string) (uint, error) {
	key, err := secret()
	if err != nil {
		return 0, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	// Numbers in MapClaims decode as float64.
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}

func GetUserByID(id uint) (*database.User, error) {
	return database.FindUserByID(id)
}
