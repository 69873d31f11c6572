package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/view"
)

// AuthController signs users in and out of the web session.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (ac *AuthController) ShowLogin(c *ctx.Context) {
	c.View(http.StatusOK, "auth/login", view.Data{"email": c.Old("email", "")})
}

func (ac *AuthController) Login(c *ctx.Context) {
	var req requests.LoginRequest
	errs, err := c.BindForm(&req)
	if err != nil {
		c.Abort(http.StatusBadRequest, err.Error())
		return
	}
	old := map[string]string{"email": req.Email}
	if len(errs) > 0 {
		c.WithErrors(errs, old)
		c.Redirect("/login")
		return
	}

	u, err := ac.service.Attempt(c.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.WithErrors(map[string]string{"email": "These credentials do not match our records."}, old)
		c.Redirect("/login")
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("login", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}

	s := c.Session()
	s.Regenerate()
	s.Set(middleware.SessionUserKey, u.ID)
	logger.WithCtx(c.Context()).Info("user signed in", "user_id", u.ID)
	c.Redirect("/products")
}

func (ac *AuthController) Logout(c *ctx.Context) {
	c.Session().Invalidate()
	c.Redirect("/login")
}
