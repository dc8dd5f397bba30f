package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/joinup-app/joinup-api/pkg/response"
)

// RequireRole gates a route on a role carried by the token claims. Must run
// after Auth. This is the capability check at the transport boundary; core
// operations stay policy-free.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get(CtxRolesKey)
		if !ok {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}
		list, _ := roles.([]string)
		if !slices.Contains(list, role) {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
