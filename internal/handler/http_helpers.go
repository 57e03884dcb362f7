package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// dateParam 校验路径中的日期参数并返回规范形式。
func dateParam(c *gin.Context, key string) (string, bool) {
	raw := strings.TrimSpace(c.Param(key))
	t, err := time.Parse(dateFormat, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期格式，应为 YYYY-MM-DD")
		return "", false
	}
	return t.Format(dateFormat), true
}

func parsePositiveInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
