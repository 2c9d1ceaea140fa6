package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/database"
	"qrmenu/internal/storage"
)

// RouteHandler implements the admin route registry and the assignment
// screen that orders items within a route.
type RouteHandler struct {
	db     *gorm.DB
	media  *storage.MediaStore
	logger *slog.Logger
}

// NewRouteHandler constructs a RouteHandler.
func NewRouteHandler(db *gorm.DB, media *storage.MediaStore, logger *slog.Logger) *RouteHandler {
	return &RouteHandler{
		db:     db,
		media:  media,
		logger: logger,
	}
}

// List renders all routes.
func (h *RouteHandler) List(c *gin.Context) {
	var routes []database.RouteSet
	if err := h.db.WithContext(c.Request.Context()).Find(&routes).Error; err != nil {
		middleware.LoggerFromContext(c).Error("list routes failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.HTML(http.StatusOK, "routes.html", gin.H{"routes": routes})
}

// Create inserts a new route. The route key is unique: a duplicate key
// fails with a conflict rather than overwriting the existing route.
func (h *RouteHandler) Create(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()

	routeKey := c.PostForm("route")
	title := c.PostForm("title")
	if routeKey == "" || title == "" {
		BadRequest(c, "route and title are required")
		return
	}

	rows, cols, timeout, ok := parseGridFields(c)
	if !ok {
		return
	}

	var existing database.RouteSet
	if err := h.db.WithContext(ctx).Where("route = ?", routeKey).First(&existing).Error; err == nil {
		logger.Info("route conflict: key already exists", slog.String("route", routeKey))
		Conflict(c, "route key already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("route lookup failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	route := database.RouteSet{
		Route:   routeKey,
		Title:   title,
		Rows:    rows,
		Cols:    cols,
		Timeout: timeout,
	}

	if file, err := c.FormFile("background"); err == nil && file.Size > 0 {
		backgroundPath, err := h.media.SaveBackground(file)
		if err != nil {
			logger.Error("save background failed", slog.Any("error", err))
			Internal(c, "failed to store background")
			return
		}
		route.BackgroundPath = backgroundPath
	}

	if err := h.db.WithContext(ctx).Create(&route).Error; err != nil {
		logger.Error("create route failed", slog.Any("error", err))
		Internal(c, "failed to create route")
		return
	}

	logger.Info("route created",
		slog.Uint64("route_id", uint64(route.ID)),
		slog.String("route", route.Route),
	)
	c.Redirect(http.StatusFound, "/admin/routes")
}

// EditForm loads a route into the edit form. Explicit 404 if missing.
func (h *RouteHandler) EditForm(c *gin.Context) {
	route, ok := h.loadRoute(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "route_edit.html", gin.H{"route": route})
}

// Update overwrites the route fields; the background is replaced only
// when a new file was supplied.
func (h *RouteHandler) Update(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	route, ok := h.loadRoute(c)
	if !ok {
		return
	}

	routeKey := c.PostForm("route")
	title := c.PostForm("title")
	if routeKey == "" || title == "" {
		BadRequest(c, "route and title are required")
		return
	}

	rows, cols, timeout, formOK := parseGridFields(c)
	if !formOK {
		return
	}

	route.Route = routeKey
	route.Title = title
	route.Rows = rows
	route.Cols = cols
	route.Timeout = timeout

	if file, err := c.FormFile("background"); err == nil && file.Size > 0 {
		backgroundPath, err := h.media.SaveBackground(file)
		if err != nil {
			logger.Error("save background failed", slog.Any("error", err))
			Internal(c, "failed to store background")
			return
		}
		route.BackgroundPath = backgroundPath
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&route).Error; err != nil {
		logger.Error("update route failed", slog.Any("error", err))
		Internal(c, "failed to update route")
		return
	}

	logger.Info("route updated", slog.Uint64("route_id", uint64(route.ID)))
	c.Redirect(http.StatusFound, "/admin/routes")
}

// AssignForm shows the assignment screen: items currently joined to the
// route (listing order is arbitrary; only the public view sorts by
// position) and the remaining items, split by id membership.
func (h *RouteHandler) AssignForm(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()

	route, ok := h.loadRoute(c)
	if !ok {
		return
	}

	var allItems []database.Item
	if err := h.db.WithContext(ctx).Find(&allItems).Error; err != nil {
		logger.Error("list items failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var links []database.RouteItem
	if err := h.db.WithContext(ctx).Where("route_set_id = ?", route.ID).Find(&links).Error; err != nil {
		logger.Error("list assignments failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	assignedIDs := make(map[uint]bool, len(links))
	for _, link := range links {
		assignedIDs[link.ItemID] = true
	}

	byID := make(map[uint]database.Item, len(allItems))
	for _, item := range allItems {
		byID[item.ID] = item
	}

	assigned := make([]database.Item, 0, len(links))
	for _, link := range links {
		if item, ok := byID[link.ItemID]; ok {
			assigned = append(assigned, item)
		}
	}

	available := make([]database.Item, 0, len(allItems))
	for _, item := range allItems {
		if !assignedIDs[item.ID] {
			available = append(available, item)
		}
	}

	c.HTML(http.StatusOK, "assign.html", gin.H{
		"route":     route,
		"assigned":  assigned,
		"available": available,
	})
}

// Assign replaces the route's entire assignment set with the submitted
// order: inside one transaction, every existing RouteItem row for the
// route is deleted and one row per id in the CSV is reinserted with
// Position set to its 1-based index. Ids omitted from the order are
// unassigned; duplicate ids yield duplicate rows.
func (h *RouteHandler) Assign(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	route, ok := h.loadRoute(c)
	if !ok {
		return
	}

	itemIDs, err := parseOrder(c.PostForm("order"))
	if err != nil {
		BadRequest(c, "order must be a comma-separated list of item ids")
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_set_id = ?", route.ID).Delete(&database.RouteItem{}).Error; err != nil {
			return err
		}
		for idx, itemID := range itemIDs {
			link := database.RouteItem{
				RouteSetID: route.ID,
				ItemID:     itemID,
				Position:   idx + 1,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("replace assignments failed", slog.Any("error", err))
		Internal(c, "failed to save order")
		return
	}

	logger.Info("assignments replaced",
		slog.Uint64("route_id", uint64(route.ID)),
		slog.Int("count", len(itemIDs)),
	)
	c.Redirect(http.StatusFound, "/admin/routes/"+strconv.FormatUint(uint64(route.ID), 10)+"/assign")
}

// parseOrder splits the submitted CSV into item ids. An empty order
// clears the route. Duplicates are kept as submitted.
func parseOrder(order string) ([]uint, error) {
	if strings.TrimSpace(order) == "" {
		return nil, nil
	}

	parts := strings.Split(order, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func parseGridFields(c *gin.Context) (rows, cols, timeout int, ok bool) {
	var err error
	if rows, err = strconv.Atoi(c.PostForm("rows")); err != nil {
		BadRequest(c, "rows must be an integer")
		return 0, 0, 0, false
	}
	if cols, err = strconv.Atoi(c.PostForm("cols")); err != nil {
		BadRequest(c, "cols must be an integer")
		return 0, 0, 0, false
	}
	if timeout, err = strconv.Atoi(c.PostForm("timeout")); err != nil {
		BadRequest(c, "timeout must be an integer")
		return 0, 0, 0, false
	}
	return rows, cols, timeout, true
}

func (h *RouteHandler) loadRoute(c *gin.Context) (database.RouteSet, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid route id")
		return database.RouteSet{}, false
	}

	var route database.RouteSet
	if err := h.db.WithContext(c.Request.Context()).First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "route not found")
			return database.RouteSet{}, false
		}
		middleware.LoggerFromContext(c).Error("load route failed", slog.Any("error", err))
		Internal(c, "internal error")
		return database.RouteSet{}, false
	}
	return route, true
}
