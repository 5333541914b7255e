package function

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/otelfunc/errors"
)

// Route is the path the Functions host forwards HttpExample invocations to.
const Route = "/api/HttpExample"

// Register mounts h on engine. Known paths called with another method get a
// 405 error body, unknown paths a 404.
func Register(engine *gin.Engine, h *Handler) {
	engine.HandleMethodNotAllowed = true
	engine.GET(Route, h.Handle)

	engine.NoMethod(func(c *gin.Context) {
		allowed := allowedMethods(engine, c.Request.URL.Path)
		c.Header("Allow", strings.Join(allowed, ", "))
		c.AbortWithStatusJSON(errors.Response(errors.MethodNotAllowed(c.Request.Method, allowed...)))
	})
	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(errors.Response(errors.NotFound(c.Request.URL.Path)))
	})
}

func allowedMethods(engine *gin.Engine, path string) []string {
	var allowed []string
	for _, r := range engine.Routes() {
		if r.Path == path {
			allowed = append(allowed, r.Method)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{http.MethodGet}
	}
	return allowed
}
