// Package gin adapts the use cases to REST APIs using the gin-gonic
// framework. Each resource lives in a sub-package named like boundsrs
// and the routes sub-package registers all of them.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs every request using the
// default slog logger at the time of this call, so the log.format
// and log.level settings apply to the access logs too.
func Logger() HandlerFunc {
	return ginslog.New(slog.Default())
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
