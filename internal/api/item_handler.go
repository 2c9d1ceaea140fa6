package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"qrmenu/internal/api/middleware"
	"qrmenu/internal/database"
	"qrmenu/internal/storage"
)

// ItemHandler implements the admin item registry: list, create, edit,
// and delete-with-cascade.
type ItemHandler struct {
	db     *gorm.DB
	media  *storage.MediaStore
	logger *slog.Logger
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(db *gorm.DB, media *storage.MediaStore, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		db:     db,
		media:  media,
		logger: logger,
	}
}

// List renders all items, unfiltered and unpaginated.
func (h *ItemHandler) List(c *gin.Context) {
	var items []database.Item
	if err := h.db.WithContext(c.Request.Context()).Find(&items).Error; err != nil {
		middleware.LoggerFromContext(c).Error("list items failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	c.HTML(http.StatusOK, "items.html", gin.H{"items": items})
}

// Create stores the uploaded icon under the media dir and inserts the
// item. Re-uploading an identical filename overwrites the old file.
func (h *ItemHandler) Create(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	label := c.PostForm("label")
	qrText := c.PostForm("qr_text")
	if label == "" || qrText == "" {
		BadRequest(c, "label and qr_text are required")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		BadRequest(c, "icon image is required")
		return
	}

	imagePath, err := h.media.SaveIcon(file)
	if err != nil {
		logger.Error("save icon failed", slog.Any("error", err))
		Internal(c, "failed to store icon")
		return
	}

	item := database.Item{
		Label:     label,
		QRText:    qrText,
		ImagePath: imagePath,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		logger.Error("create item failed", slog.Any("error", err))
		Internal(c, "failed to create item")
		return
	}

	logger.Info("item created", slog.Uint64("item_id", uint64(item.ID)))
	c.Redirect(http.StatusFound, "/admin/items")
}

// EditForm loads an existing item into the edit form. 404 if the id
// does not exist.
func (h *ItemHandler) EditForm(c *gin.Context) {
	item, ok := h.loadItem(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "item_edit.html", gin.H{"item": item})
}

// Update overwrites label and qr_text unconditionally, and replaces the
// icon only when a new non-empty file was uploaded.
func (h *ItemHandler) Update(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	item, ok := h.loadItem(c)
	if !ok {
		return
	}

	label := c.PostForm("label")
	qrText := c.PostForm("qr_text")
	if label == "" || qrText == "" {
		BadRequest(c, "label and qr_text are required")
		return
	}
	item.Label = label
	item.QRText = qrText

	if file, err := c.FormFile("image"); err == nil && file.Size > 0 {
		imagePath, err := h.media.SaveIcon(file)
		if err != nil {
			logger.Error("save icon failed", slog.Any("error", err))
			Internal(c, "failed to store icon")
			return
		}
		item.ImagePath = imagePath
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&item).Error; err != nil {
		logger.Error("update item failed", slog.Any("error", err))
		Internal(c, "failed to update item")
		return
	}

	logger.Info("item updated", slog.Uint64("item_id", uint64(item.ID)))
	c.Redirect(http.StatusFound, "/admin/items")
}

// Delete removes the item's route assignments first, then the item
// itself, in one transaction. The store does not enforce cascades, so
// the order matters: no RouteItem row may outlive its item.
func (h *ItemHandler) Delete(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	item, ok := h.loadItem(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&database.RouteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		logger.Error("delete item failed", slog.Any("error", err))
		Internal(c, "failed to delete item")
		return
	}

	logger.Info("item deleted", slog.Uint64("item_id", uint64(item.ID)))
	c.Redirect(http.StatusFound, "/admin/items")
}

func (h *ItemHandler) loadItem(c *gin.Context) (database.Item, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid item id")
		return database.Item{}, false
	}

	var item database.Item
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "item not found")
			return database.Item{}, false
		}
		middleware.LoggerFromContext(c).Error("load item failed", slog.Any("error", err))
		Internal(c, "internal error")
		return database.Item{}, false
	}
	return item, true
}
