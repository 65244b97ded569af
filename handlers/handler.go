package handlers

import (
	"github.com/calckorgo82/stockwebapp/accounts"
	"github.com/calckorgo82/stockwebapp/ledger"
	"github.com/calckorgo82/stockwebapp/middleware"
	"github.com/calckorgo82/stockwebapp/quote"
	"github.com/calckorgo82/stockwebapp/session"
	"github.com/calckorgo82/stockwebapp/web"
	"github.com/gin-gonic/gin"
)

// Handler serves every route of the application.
type Handler struct {
	Accounts *accounts.Store
	Ledger   *ledger.Ledger
	Quotes   quote.Service
	Sessions *session.Manager
}

// NewRouter wires the routes, templates and middleware.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), Recovery(), middleware.NoCache())
	router.SetHTMLTemplate(web.Templates())
	router.HandleMethodNotAllowed = true
	router.NoRoute(NotFound)
	router.NoMethod(MethodNotAllowed)

	// Public routes
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/register", h.RegisterForm)
	router.POST("/register", h.Register)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.RequireAuth(h.Sessions))
	{
		auth.GET("/", h.Index)
		auth.GET("/buy", h.BuyForm)
		auth.POST("/buy", h.Buy)
		auth.GET("/sell", h.SellForm)
		auth.POST("/sell", h.Sell)
		auth.GET("/quote", h.QuoteForm)
		auth.POST("/quote", h.Quote)
		auth.GET("/history", h.History)
	}

	return router
}

// page builds the template data shared by every page.
func (h *Handler) page(c *gin.Context, title string, data gin.H) gin.H {
	page := gin.H{
		"title":   title,
		"user_id": c.Value("user_id"),
		"flashes": h.Sessions.Flashes(c),
	}
	for k, v := range data {
		page[k] = v
	}
	return page
}
