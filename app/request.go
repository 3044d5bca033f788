package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/astaxie/beego/validation"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// MarkErrors logs validation errors and joins them into one error.
func MarkErrors(errs []*validation.Error) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		log.Debugf("[Validation] %s: %s", err.Key, err.Message)
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return errors.New(strings.Join(messages, ", "))
}

// BindAndValid binds the request (body or query, depending on method and
// content type) into form and validates it with the form's valid tags and
// optional Valid hook.
func BindAndValid(c *gin.Context, form interface{}) (int, error) {
	if err := c.ShouldBind(form); err != nil {
		return http.StatusBadRequest, err
	}

	valid := validation.Validation{}
	check, err := valid.Valid(form)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if !check {
		return http.StatusBadRequest, MarkErrors(valid.Errors)
	}

	return http.StatusOK, nil
}
