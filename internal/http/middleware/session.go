package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/modules/auth"
)

const ctxKeyUser = "current_user"

// Session attaches the visitor's cached identity to each request. The
// session itself lives with the auth package; this only surfaces it to
// handlers. Must run after Visitors.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if vis := CurrentVisitor(c); vis != nil {
			if u, ok := vis.Session.CurrentUser(); ok {
				c.Set(ctxKeyUser, u)
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (auth.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return auth.User{}, false
	}
	u, ok := v.(auth.User)
	return u, ok
}
