package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imrfidelz/djk-sub001/internal/modules/auth"
	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/modules/cart"
	"github.com/imrfidelz/djk-sub001/internal/modules/orders"
)

const (
	CookieVisitorID = "visitor_id"
	ctxKeyVisitor   = "visitor"

	// 30 days, same lifetime a guest cart is worth keeping
	visitorCookieMaxAge = 30 * 24 * 60 * 60
)

// Visitor bundles the per-browser state: the session token, the guest cart
// and its badge, and the back-office order cache. Nothing in here may be
// shared between two cookie ids.
type Visitor struct {
	Session    *auth.Session
	AuthClient *auth.Client
	Reconciler *cart.Reconciler
	Orders     *orders.AdminController
	Notifier   *badge.Notifier
	Counter    *badge.Counter
}

// VisitorRegistry hands out one Visitor per cookie id, building it on first
// sight and memoizing it after.
type VisitorRegistry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor
	build    func(id string) *Visitor
}

func NewVisitorRegistry(build func(id string) *Visitor) *VisitorRegistry {
	return &VisitorRegistry{visitors: make(map[string]*Visitor), build: build}
}

func (r *VisitorRegistry) For(id string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok {
		v = r.build(id)
		r.visitors[id] = v
	}
	return v
}

// Visitors ensures every request carries a visitor cookie and attaches the
// matching Visitor to the context. Malformed ids are replaced, never trusted
// as map keys.
func Visitors(reg *VisitorRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieVisitorID)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetCookie(CookieVisitorID, id, visitorCookieMaxAge, "/", "", false, true)
		}
		c.Set(ctxKeyVisitor, reg.For(id))
		c.Next()
	}
}

func CurrentVisitor(c *gin.Context) *Visitor {
	v, ok := c.Get(ctxKeyVisitor)
	if !ok {
		return nil
	}
	vis, _ := v.(*Visitor)
	return vis
}
