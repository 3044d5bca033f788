package middlewares

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/services"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userId"

func bearer(c *gin.Context) (string, bool, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Workaround for JWT over websockets. The bearer can also be sent as get parameter.
		if getAuth, exists := c.GetQuery("Authorization"); exists && getAuth != "" {
			authHeader = getAuth
		} else {
			return "", false, nil
		}
	}

	authToken := strings.Split(authHeader, " ")
	if len(authToken) != 2 || authToken[0] != "Bearer" {
		return "", true, errors.New("invalid token format")
	}

	return authToken[1], true, nil
}

func authenticate(c *gin.Context, token string) error {
	id, err := services.ParseToken(token)
	if err != nil {
		return err
	}
	c.Set(UserIDKey, strconv.FormatUint(uint64(id), 10))
	return nil
}

// CheckAuthorizationHeader rejects requests without a valid bearer token.
func CheckAuthorizationHeader(c *gin.Context) {
	appG := app.Gin{C: c}

	token, present, err := bearer(c)
	if !present {
		appG.Error(http.StatusUnauthorized, errors.New("authorization header is missing"))
		return
	}
	if err != nil {
		appG.Error(http.StatusUnauthorized, err)
		return
	}
	if err := authenticate(c, token); err != nil {
		appG.Error(http.StatusUnauthorized, err)
		return
	}

	c.Next()
}

// Identity attaches the caller's user id when a bearer token is sent.
// Anonymous requests pass through, invalid tokens are rejected.
func Identity(c *gin.Context) {
	token, present, err := bearer(c)
	if !present {
		c.Next()
		return
	}

	appG := app.Gin{C: c}
	if err != nil {
		appG.Error(http.StatusUnauthorized, err)
		return
	}
	if err := authenticate(c, token); err != nil {
		appG.Error(http.StatusUnauthorized, err)
		return
	}

	c.Next()
}

// UserID returns the id set by Identity or CheckAuthorizationHeader.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
