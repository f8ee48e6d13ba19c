// Package v1 wires the API v1 HTTP surface.
package v1

import (
	"github.com/gin-gonic/gin"

	"yahveh/internal/domain/auth"
	"yahveh/internal/domain/catalogs/article"
	"yahveh/internal/domain/catalogs/client"
	"yahveh/internal/domain/deliverynote"
	"yahveh/internal/infrastructure/http/v1/handlers"
	"yahveh/internal/infrastructure/http/v1/middleware"
	"yahveh/internal/infrastructure/storage/postgres"
	"yahveh/pkg/logger"
)

// Roles known to the system. LIM users operate delivery notes but not
// the client catalog.
const (
	RoleAdmin = "ADMIN"
	RoleLim   = "LIM"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger         *logger.Logger
	TokenValidator middleware.TokenValidator
	AuthService    *auth.Service
	NoteService    *deliverynote.Service
	ClientService  *client.Service
	ArticleService *article.Service
	Pool           *postgres.Pool
}

// NewRouter builds the Gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	noteHandler := handlers.NewDeliveryNoteHandler(base, cfg.NoteService)
	detailHandler := handlers.NewDeliveryNoteDetailHandler(base, cfg.NoteService)
	clientHandler := handlers.NewClientHandler(base, cfg.ClientService)
	articleHandler := handlers.NewArticleHandler(base, cfg.ArticleService)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api/v1")

	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.TokenValidator))

	notes := protected.Group("/delivery-notes")
	notes.Use(middleware.RequireRole(RoleAdmin, RoleLim))
	{
		notes.GET("", noteHandler.List)
		notes.GET("/all", noteHandler.ListAll)
		notes.GET("/voided", noteHandler.ListVoided)
		notes.GET("/dates", noteHandler.ListByDateRange)
		notes.GET("/sales-report", noteHandler.SalesReport)
		notes.GET("/client/:clientId", noteHandler.ListByClient)
		notes.GET("/:id", noteHandler.GetByID)
		notes.GET("/:id/report", noteHandler.Report)
		notes.POST("", noteHandler.Create)
		notes.PUT("/:id", noteHandler.Update)
		notes.PUT("/:id/void", noteHandler.Void)
		notes.DELETE("/:id", noteHandler.Delete)
	}

	details := protected.Group("/delivery-note-details")
	details.Use(middleware.RequireRole(RoleAdmin, RoleLim))
	{
		details.GET("/note/:noteId", detailHandler.ListByNote)
		details.GET("/:id", detailHandler.GetByID)
		details.POST("", detailHandler.Create)
		details.PUT("/:id", detailHandler.Update)
		details.DELETE("/:id", detailHandler.Delete)
	}

	clients := protected.Group("/clients")
	clients.Use(middleware.RequireRole(RoleAdmin))
	{
		clients.GET("", clientHandler.List)
		clients.GET("/zone/:zoneId", clientHandler.ListByZone)
		clients.GET("/search/tax-id", clientHandler.SearchByTaxID)
		clients.GET("/search/name", clientHandler.SearchByName)
		clients.GET("/:id", clientHandler.GetByID)
		clients.POST("", clientHandler.Create)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
	}

	articles := protected.Group("/articles")
	articles.Use(middleware.RequireRole(RoleAdmin, RoleLim))
	{
		articles.GET("", articleHandler.List)
		articles.GET("/line/:lineId", articleHandler.ListByLine)
		articles.GET("/search/name", articleHandler.SearchByName)
		articles.GET("/:id", articleHandler.GetByID)
	}

	return router
}
