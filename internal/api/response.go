package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes a minimal HTML error body. The admin surface is
// server-rendered, so failures come back as small pages, not JSON.
func Error(c *gin.Context, status int, msg string) {
	body := fmt.Sprintf("<h3>%s</h3><a href='/admin'>Back</a>", msg)
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }
