package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

type moodPayload struct {
	Mood *int `json:"mood" binding:"required"`
}

type reflectionPayload struct {
	Reflection *string `json:"reflection" binding:"required"`
}

// ShowDay 返回某天的完整视图：各活跃习惯的完成状态、心情与反思。
// 反思同时给出原文与净化后的 HTML，供前端直接展示。
func (a *API) ShowDay(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	l := a.records.Load()
	meta := l.Day(date)

	statuses := make([]gin.H, 0)
	for _, habit := range l.ActiveHabits() {
		statuses = append(statuses, gin.H{
			"habit":     habit,
			"completed": l.Completed(date, habit),
		})
	}

	reflectionHTML, err := service.RenderReflection(meta.Reflection)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染反思内容失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            date,
		"statuses":        statuses,
		"mood":            meta.Mood,
		"mood_label":      a.moods[meta.Mood],
		"reflection":      meta.Reflection,
		"reflection_html": reflectionHTML,
	})
}

// SetDayMood 记录某天的心情；0 表示清除。编码必须在词表内。
func (a *API) SetDayMood(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	var payload moodPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	mood := *payload.Mood
	if mood != 0 {
		if _, ok := a.moods[mood]; !ok {
			respondError(c, http.StatusBadRequest, "无效的心情编码")
			return
		}
	}

	if _, err := a.records.SetDayMood(date, mood); err != nil {
		respondError(c, http.StatusInternalServerError, "保存心情失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date,
		"mood":       mood,
		"mood_label": a.moods[mood],
	})
}

// SetDayReflection 记录某天的反思文本；空串表示清除。
func (a *API) SetDayReflection(c *gin.Context) {
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	var payload reflectionPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if _, err := a.records.SetDayReflection(date, *payload.Reflection); err != nil {
		respondError(c, http.StatusInternalServerError, "保存反思失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":       date,
		"reflection": *payload.Reflection,
	})
}
