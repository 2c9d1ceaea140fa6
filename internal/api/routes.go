package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/auth"
	"qrmenu/internal/config"
	"qrmenu/internal/storage"
)

// RegisterRoutes wires the public display, the login flow, and the
// session-guarded admin surface onto the router.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	authService *auth.Service,
	media *storage.MediaStore,
	display config.DisplayConfig,
	logger *slog.Logger,
) {
	authHandler := NewAuthHandler(db, authService, logger)
	itemHandler := NewItemHandler(db, media, logger)
	routeHandler := NewRouteHandler(db, media, logger)
	displayHandler := NewDisplayHandler(db, display, logger)
	session := middleware.SessionMiddleware(authService)

	router.GET("/", displayHandler.RedirectToDefault)
	router.GET("/r/:route", displayHandler.ShowRoute)

	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	admin := router.Group("/admin")
	admin.Use(session)
	{
		admin.GET("", func(c *gin.Context) {
			c.HTML(http.StatusOK, "admin.html", gin.H{})
		})

		admin.GET("/items", itemHandler.List)
		admin.POST("/items", itemHandler.Create)
		admin.GET("/items/:id/edit", itemHandler.EditForm)
		admin.POST("/items/:id/edit", itemHandler.Update)
		admin.POST("/items/:id/delete", itemHandler.Delete)

		admin.GET("/routes", routeHandler.List)
		admin.POST("/routes", routeHandler.Create)
		admin.GET("/routes/:id/edit", routeHandler.EditForm)
		admin.POST("/routes/:id/edit", routeHandler.Update)
		admin.GET("/routes/:id/assign", routeHandler.AssignForm)
		admin.POST("/routes/:id/assign", routeHandler.Assign)
	}
}
