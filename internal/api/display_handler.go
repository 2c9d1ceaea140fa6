package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/config"
	"qrmenu/internal/database"
)

// DisplayHandler serves the public route views. Unknown route names
// soft-redirect to the configured default so a signage screen always
// resolves to something.
type DisplayHandler struct {
	db      *gorm.DB
	display config.DisplayConfig
	logger  *slog.Logger
}

// NewDisplayHandler constructs a DisplayHandler.
func NewDisplayHandler(db *gorm.DB, display config.DisplayConfig, logger *slog.Logger) *DisplayHandler {
	return &DisplayHandler{
		db:      db,
		display: display,
		logger:  logger,
	}
}

// RedirectToDefault sends / to the default route view.
func (h *DisplayHandler) RedirectToDefault(c *gin.Context) {
	c.Redirect(http.StatusFound, "/r/"+h.display.DefaultRoute)
}

// ShowRoute renders a route's grid: items in position order, the grid
// dimensions and background from the route, and the globally configured
// inactivity timeout. A missing route redirects to the default; if the
// default itself is the one missing, respond 404 instead of entering a
// redirect loop.
func (h *DisplayHandler) ShowRoute(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()
	name := c.Param("route")

	var route database.RouteSet
	if err := h.db.WithContext(ctx).Where("route = ?", name).First(&route).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if name == h.display.DefaultRoute {
				logger.Error("default route is not configured", slog.String("route", name))
				NotFound(c, "default route is not configured")
				return
			}
			c.Redirect(http.StatusFound, "/r/"+h.display.DefaultRoute)
			return
		}
		logger.Error("load route failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var links []database.RouteItem
	if err := h.db.WithContext(ctx).
		Where("route_set_id = ?", route.ID).
		Order("position asc").
		Find(&links).Error; err != nil {
		logger.Error("load assignments failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	// Resolve per link so duplicate assignments render as duplicate cells.
	items := make([]database.Item, 0, len(links))
	for _, link := range links {
		var item database.Item
		if err := h.db.WithContext(ctx).First(&item, link.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			logger.Error("load item failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		items = append(items, item)
	}

	c.HTML(http.StatusOK, "view_route.html", gin.H{
		"route":              route,
		"items":              items,
		"inactivity_timeout": h.display.InactivityTimeout,
	})
}
