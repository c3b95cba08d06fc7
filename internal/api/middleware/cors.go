package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS wraps rs/cors into a gin.HandlerFunc, permissive by default (any
// origin, the methods/headers this API actually uses) since dispatch
// requests carry no cookies or credentials worth restricting an origin
// for. The teacher's go.mod already required github.com/rs/cors but never
// wired it into a router; this wires it for real.
func CORS() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	handler := c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodOptions {
			handler.ServeHTTP(ctx.Writer, ctx.Request)
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.HandlerFunc(ctx.Writer, ctx.Request)
		ctx.Next()
	}
}
