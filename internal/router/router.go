package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibework/backend/internal/handler"
	"vibework/backend/internal/logging"
	"vibework/backend/internal/middleware"
	"vibework/backend/internal/service"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.SessionHandler
	Calendar *handler.CalendarHandler
	Settings *handler.SettingsHandler
}

func New(authService *service.AuthService, handlers Handlers, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(logging.Gin(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/auth/token", handlers.Auth.Token)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService))

	protected.GET("/presets", handlers.Session.Presets)

	session := protected.Group("/session")
	session.GET("", handlers.Session.GetState)
	session.GET("/stream", handlers.Session.Stream)
	session.POST("/start", handlers.Session.Start)
	session.POST("/pause", handlers.Session.Pause)
	session.POST("/stop", handlers.Session.Stop)

	events := protected.Group("/events")
	events.GET("", handlers.Calendar.ListEvents)
	events.POST("", handlers.Calendar.CreateEvent)
	events.DELETE("/:id", handlers.Calendar.DeleteEvent)

	cal := protected.Group("/calendar")
	cal.GET("/weeks", handlers.Calendar.Weeks)
	cal.POST("/select", handlers.Calendar.Select)
	cal.GET("/tags", handlers.Calendar.Tags)

	protected.GET("/settings", handlers.Settings.Get)
	protected.PUT("/settings", handlers.Settings.Update)

	return engine
}
