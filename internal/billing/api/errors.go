package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// respondError 把领域错误翻译成 HTTP 状态码，其余一律 500
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
