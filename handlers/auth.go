package handlers

import (
	"net/http"

	"github.com/calckorgo82/stockwebapp/forms"
	"github.com/gin-gonic/gin"
)

// LoginForm forgets any current user and shows the login form.
func (h *Handler) LoginForm(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "login.html", h.page(c, "Log In", nil))
}

func (h *Handler) Login(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		fail(c, err)
		return
	}
	creds, err := forms.BindCredentials(c)
	if err != nil {
		Apology(c, http.StatusForbidden, err.Error())
		return
	}

	userID, err := h.Accounts.Authenticate(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Sessions.Login(c, userID); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", h.page(c, "Register", nil))
}

// Register creates the account and logs the new user in.
func (h *Handler) Register(c *gin.Context) {
	reg, err := forms.BindRegistration(c)
	if err != nil {
		fail(c, err)
		return
	}

	userID, err := h.Accounts.Register(c.Request.Context(), reg.Username, reg.Password, reg.Confirmation)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.Sessions.Login(c, userID); err != nil {
		fail(c, err)
		return
	}
	h.flash(c, "Registered!")
	c.Redirect(http.StatusFound, "/")
}
