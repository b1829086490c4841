package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/http/render"
	"github.com/imrfidelz/djk-sub001/internal/http/validation"
	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Login handles POST /login. After the session is established the guest
// cart is migrated into the remote cart; a migration failure keeps the
// guest cart intact and does not fail the login.
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		render.Fail(c, apperr.InvalidErr("Invalid login request.", validation.FromBindError(err, &in)))
		return
	}

	vis := middleware.CurrentVisitor(c)
	ctx := c.Request.Context()
	res, err := vis.AuthClient.Login(ctx, in.Email, in.Password)
	if err != nil {
		render.Fail(c, err)
		return
	}
	vis.Session.Establish(res.Token, res.User)

	if err := vis.Reconciler.MigrateLocalCartToBackend(ctx); err != nil {
		// local lines stay put; the next login retries the full list
		log.Printf("Login: cart migration incomplete for user %s: %v", res.User.ID, err)
	}

	render.OK(c, gin.H{"user": res.User})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	vis := middleware.CurrentVisitor(c)
	if err := vis.AuthClient.Logout(c.Request.Context()); err != nil {
		log.Printf("Logout: remote logout failed: %v", err)
	}
	vis.Session.Clear()
	render.NoContent(c)
}

// Me handles GET /me. The route is behind RequireAuth, so a user is always
// present here.
func (h *AuthHandler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	render.OK(c, u)
}
