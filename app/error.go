package app

import (
	log "github.com/sirupsen/logrus"
)

// Error aborts the request and writes the error message as JSON string.
func (g *Gin) Error(httpCode int, err error) {
	if httpCode >= 500 {
		log.Errorf("[%s %s] %s", g.C.Request.Method, g.C.Request.URL.Path, err)
	}
	g.C.AbortWithStatusJSON(httpCode, err.Error())
}
