package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/srad/techhub/app"
	"github.com/srad/techhub/middlewares"
	"github.com/srad/techhub/services"
)

// GetUserProfile godoc
// @Summary     Get user profile
// @Description Get the profile of the authenticated user
// @Tags        user
// @Accept      json
// @Produce     json
// @Success     200 {object} database.User
// @Failure     401 {string} string "Error message"
// @Failure     404 {string} string "Error message"
// @Router      /user/profile [get]
func GetUserProfile(c *gin.Context) {
	appG := app.Gin{C: c}

	id, err := strconv.ParseUint(middlewares.UserID(c), 10, 32)
	if err != nil {
		appG.Error(http.StatusUnauthorized, errors.New("user is not authenticated"))
		return
	}

	user, err := services.GetUserByID(uint(id))
	if err != nil {
		appG.Error(http.StatusNotFound, errors.New("user does not exist"))
		return
	}

	appG.Response(http.StatusOK, user)
}
