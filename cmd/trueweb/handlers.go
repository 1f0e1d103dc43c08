package main

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/trueweb"
	"github.com/dmitrymomot/trueweb/middlewares"
	"github.com/dmitrymomot/trueweb/pkg/cache"
	"github.com/dmitrymomot/trueweb/pkg/config"
)

const sessionMaxAge = 7 * 24 * 3600

type siteHandler struct {
	auth  config.AuthConfig
	gates *gates
}

func (h *siteHandler) Routes(r trueweb.Router) {
	r.GET("/", func(c trueweb.Context) error {
		return c.String(http.StatusOK, "trueweb is running")
	})
	r.Controller(http.MethodGet, "/pages/:slug", "pages/show", trueweb.Vars{"site": "trueweb"})

	if h.gates.session == nil {
		return
	}
	r.GET("/login", func(c trueweb.Context) error {
		return c.String(http.StatusOK, "POST username and password to /login")
	})
	r.POST("/login", h.login)
	r.POST("/logout", func(c trueweb.Context) error {
		c.DeleteCookie(h.auth.CookieName)
		return c.Redirect(http.StatusSeeOther, "/")
	})
	r.Group("/dashboard/*", func(r trueweb.Router) {
		r.GET("/dashboard", func(c trueweb.Context) error {
			return c.String(http.StatusOK, "signed in as "+middlewares.GetPrincipal(c))
		})
	}, h.gates.session)
}

func (h *siteHandler) login(c trueweb.Context) error {
	user, _ := c.Input().Post.String("username")
	pass, _ := c.Input().Post.String("password")

	if h.auth.AdminUser == "" ||
		subtle.ConstantTimeCompare([]byte(user), []byte(h.auth.AdminUser)) != 1 ||
		subtle.ConstantTimeCompare([]byte(pass), []byte(h.auth.AdminPassword)) != 1 {
		return trueweb.ErrUnauthorized("Invalid username or password")
	}

	if err := c.SetCookieSigned(h.auth.CookieName, user, sessionMaxAge); err != nil {
		return trueweb.ErrInternal("Could not start session", trueweb.WithCause(err))
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func showPage(c trueweb.Context, vars trueweb.Vars) error {
	site, _ := trueweb.Var[string](vars, "site")
	slug, ok := c.Input().Route.AsSlug("slug")
	if !ok {
		return trueweb.ErrNotFound("Page not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"site": site, "page": slug})
}

type apiHandler struct {
	tokens cache.Cache[string]
	ttl    time.Duration
	gates  *gates
}

func (h *apiHandler) Routes(r trueweb.Router) {
	r.Group("/api/*", func(r trueweb.Router) {
		r.GET("/api/me", func(c trueweb.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"subject": middlewares.GetPrincipal(c)})
		})
		r.POST("/api/echo", func(c trueweb.Context) error {
			return c.JSON(http.StatusOK, c.Input().Post)
		})
	}, h.gates.json, h.gates.bearer)

	if h.gates.jwt != nil {
		r.Group("/account/*", func(r trueweb.Router) {
			r.GET("/account", func(c trueweb.Context) error {
				claims, _ := middlewares.GetJWTClaims[jwt.MapClaims](c)
				return c.JSON(http.StatusOK, claims)
			})
		}, h.gates.jwt)
	}

	if h.gates.admin != nil {
		r.Group("/admin/*", func(r trueweb.Router) {
			r.POST("/admin/tokens", h.issueToken)
			r.DELETE("/admin/tokens/:token", h.revokeToken)
		}, h.gates.admin)
	}
}

func (h *apiHandler) issueToken(c trueweb.Context) error {
	subject, ok := c.Input().All.String("subject")
	if !ok {
		return trueweb.ErrBadRequest("subject is required")
	}

	token := uuid.NewString()
	if err := h.tokens.Set(c, token, subject, h.ttl); err != nil {
		return trueweb.ErrInternal("Could not issue token", trueweb.WithCause(err))
	}
	c.LogInfo("token issued", "subject", subject, "by", middlewares.GetPrincipal(c))

	return c.JSON(http.StatusCreated, map[string]any{
		"token":      token,
		"subject":    subject,
		"expires_in": int(h.ttl.Seconds()),
	})
}

func (h *apiHandler) revokeToken(c trueweb.Context) error {
	if err := h.tokens.Delete(c, c.Param("token")); err != nil {
		return trueweb.ErrInternal("Could not revoke token", trueweb.WithCause(err))
	}
	return c.NoContent(http.StatusNoContent)
}
