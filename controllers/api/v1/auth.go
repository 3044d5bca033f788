package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/database"
	"github.com/srad/techhub/models/requests"
	"github.com/srad/techhub/models/responses"
	"github.com/srad/techhub/services"
)

// CreateUser godoc
// @Summary     Create new user
// @Description Create new user
// @Tags        auth
// @Param       AuthenticationRequest body requests.AuthenticationRequest true "Username and password"
// @Accept      json
// @Produce     json
// @Success     201
// @Failure     400 {string} string "Error message"
// @Failure     409 {string} string "Error message"
// @Failure     500 {string} string "Error message"
// @Router      /auth/signup [post]
func CreateUser(c *gin.Context) {
	appG := app.Gin{C: c}

	var auth requests.AuthenticationRequest
	if code, err := app.BindAndValid(c, &auth); err != nil {
		appG.Error(code, err)
		return
	}

	if err := services.CreateUser(auth); err != nil {
		if errors.Is(err, database.ErrUsernameExists) {
			appG.Error(http.StatusConflict, err)
			return
		}
		appG.Error(http.StatusInternalServerError, err)
		return
	}

	appG.NoContent(http.StatusCreated)
}

// Login godoc
// @Summary     User login
// @Description User login
// @Tags        auth
// @Param       AuthenticationRequest body requests.AuthenticationRequest true "Username and password"
// @Accept      json
// @Produce     json
// @Success     200 {object} responses.LoginResponse "JWT token for authentication"
// @Failure     401 {string} string "Error message"
// @Failure     400 {string} string "Error message"
// @Failure     503 {string} string "Error message"
// @Router      /auth/login [post]
func Login(c *gin.Context) {
	appG := app.Gin{C: c}

	var auth requests.AuthenticationRequest
	if code, err := app.BindAndValid(c, &auth); err != nil {
		appG.Error(code, err)
		return
	}

	token, err := services.AuthenticateUser(auth)
	if errors.Is(err, services.ErrAuthDisabled) {
		appG.Error(http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		appG.Error(http.StatusUnauthorized, err)
		return
	}

	appG.Response(http.StatusOK, responses.LoginResponse{Token: token})
}
