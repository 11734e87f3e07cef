package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/service/auth"
	"github.com/jwalitptl/clinic-api/internal/session"
)

type Handler struct {
	svc    auth.AuthServicer
	cookie config.SessionConfig
}

func NewHandler(svc auth.AuthServicer, cookie config.SessionConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// RegisterRoutes mounts the auth endpoints. limit guards the credential
// endpoints and may be nil.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, limit gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		credentials := auth.Group("")
		if limit != nil {
			credentials.Use(limit)
		}
		credentials.POST("/sign-up/email", h.SignUp)
		credentials.POST("/sign-in/email", h.SignIn)

		auth.POST("/sign-out", h.SignOut)
		auth.GET("/get-session", h.GetSession)
		auth.POST("/revoke-sessions", h.RevokeSessions)
	}
}

type authResponse struct {
	Token    string       `json:"token"`
	User     session.User `json:"user"`
	Redirect string       `json:"redirect"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	res, err := h.svc.SignUp(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.setCookie(c, res)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(authResponse{
		Token:    res.Token,
		User:     res.Session.User,
		Redirect: res.Redirect,
	}))
}

func (h *Handler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	res, err := h.svc.SignIn(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.setCookie(c, res)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(authResponse{
		Token:    res.Token,
		User:     res.Session.User,
		Redirect: res.Redirect,
	}))
}

func (h *Handler) SignOut(c *gin.Context) {
	token := session.TokenFromRequest(c.Request, h.cookie.CookieName)

	next, err := h.svc.SignOut(c.Request.Context(), token)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.clearCookie(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"redirect": next}))
}

// GetSession returns the augmented session, or null when signed out.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(handler.CurrentSession(c)))
}

// RevokeSessions signs the current user out of every device.
func (h *Handler) RevokeSessions(c *gin.Context) {
	sess := handler.CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	n, err := h.svc.RevokeAll(c.Request.Context(), sess.User.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.clearCookie(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"revoked": n}))
}

func (h *Handler) setCookie(c *gin.Context, res *auth.Result) {
	maxAge := int(time.Until(res.Session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, res.Token, maxAge, "/", "", h.cookie.CookieSecure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.CookieSecure, true)
}
