package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail hands the error to the error-handler middleware.
func Fail(c *gin.Context, err error) {
	middleware.Fail(c, err)
}
