package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"todo-web/internal/web"
)

const htmlContentType = "text/html; charset=utf-8"

// Index serves the todo page.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, web.IndexHTML())
}
