package api

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login exchanges email and password for a bearer token.
func (ac *AuthController) Login(c *ctx.Context) {
	var req requests.LoginRequest
	if !c.BindJSON(&req) {
		return
	}

	u, err := ac.service.Attempt(c.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.Error(http.StatusUnauthorized, "These credentials do not match our records.")
		return
	}
	if err != nil {
		logger.WithCtx(c.Context()).Error("api login", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}

	token, exp, err := ac.service.IssueToken(u)
	if err != nil {
		logger.WithCtx(c.Context()).Error("issue token", "error", err)
		c.Abort(http.StatusInternalServerError, "")
		return
	}
	c.JSON(http.StatusOK, resource.Map{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": exp,
		"user":       UserResource(u.Actor()),
	})
}

// User returns the bearer token's owner.
func (ac *AuthController) User(c *ctx.Context) {
	c.JSON(http.StatusOK, resource.Wrap(resource.One(c.Actor(), UserResource), nil))
}

func UserResource(a *auth.Actor) resource.Map {
	return resource.Map{
		"id":       a.ID,
		"name":     a.Name,
		"email":    a.Email,
		"role":     a.Role,
		"is_admin": a.IsAdmin(),
	}
}
