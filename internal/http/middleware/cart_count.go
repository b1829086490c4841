package middleware

import (
	"github.com/gin-gonic/gin"
)

const cartCountKey = "cart_count"

// CartCount exposes the visitor's current badge count to handlers without
// another fetch; the counter is kept current by the notifier. Must run
// after Visitors.
func CartCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if vis := CurrentVisitor(c); vis != nil {
			c.Set(cartCountKey, vis.Counter.Count())
		}
		c.Next()
	}
}

func GetCartCount(c *gin.Context) int {
	v, ok := c.Get(cartCountKey)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}
