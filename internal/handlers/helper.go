package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
			Code:    services.CodeValidationFailed,
		})
		return ""
	}
	return idStr
}

// parseDateQuery reads an optional RFC 3339 timestamp or YYYY-MM-DD date
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
}
