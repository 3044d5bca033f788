package app

import (
	"github.com/gin-gonic/gin"
)

type Gin struct {
	C *gin.Context
}

// Response writes data as JSON with the given status code.
func (g *Gin) Response(httpCode int, data interface{}) {
	g.C.JSON(httpCode, data)
}

// NoContent ends the request without a body.
func (g *Gin) NoContent(httpCode int) {
	g.C.Status(httpCode)
	g.C.Writer.WriteHeaderNow()
}
