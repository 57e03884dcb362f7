package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/service"
)

type habitPayload struct {
	Name string `json:"name" binding:"required"`
}

type habitActivePayload struct {
	Active *bool `json:"active" binding:"required"`
}

type statusPayload struct {
	Date      string `json:"date" binding:"required"`
	Habit     string `json:"habit" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

// ListHabits 返回习惯目录（含已归档），附带各自的连胜与徽章。
func (a *API) ListHabits(c *gin.Context) {
	l := a.records.Load()

	items := make([]gin.H, 0)
	for _, habit := range l.Habits() {
		streak := a.streaks.Streak(l, habit.Name)
		items = append(items, gin.H{
			"name":           habit.Name,
			"active":         habit.Active,
			"current_streak": streak,
			"badge":          a.badges.Badge(streak),
		})
	}

	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// CreateHabit 新增习惯；重名（含已归档）时拒绝且日志保持不变。
func (a *API) CreateHabit(c *gin.Context) {
	var payload habitPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if _, err := a.records.AddHabit(payload.Name); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateHabit):
			respondError(c, http.StatusConflict, "习惯已存在")
		case errors.Is(err, service.ErrHabitNameRequired), errors.Is(err, service.ErrHabitNameReserved):
			respondError(c, http.StatusBadRequest, "无效的习惯名称")
		default:
			respondError(c, http.StatusInternalServerError, "保存习惯失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": payload.Name})
}

// SetHabitActive 归档或激活习惯。
func (a *API) SetHabitActive(c *gin.Context) {
	var payload habitActivePayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	name := c.Param("name")
	if _, err := a.records.SetHabitActive(name, *payload.Active); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "习惯不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存习惯状态失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "active": *payload.Active})
}

// DeleteHabit 永久删除习惯及其全部打卡记录。
func (a *API) DeleteHabit(c *gin.Context) {
	name := c.Param("name")
	if _, err := a.records.DeleteHabit(name); err != nil {
		if errors.Is(err, service.ErrHabitNotFound) {
			respondError(c, http.StatusNotFound, "习惯不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除习惯失败")
		return
	}

	c.Status(http.StatusNoContent)
}

// UpsertStatus 写入某天某习惯的完成状态，重复调用幂等。
func (a *API) UpsertStatus(c *gin.Context) {
	var payload statusPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if _, err := a.records.UpsertStatus(payload.Date, payload.Habit, *payload.Completed); err != nil {
		switch {
		case errors.Is(err, service.ErrHabitNameRequired), errors.Is(err, service.ErrHabitNameReserved):
			respondError(c, http.StatusBadRequest, "无效的习惯名称")
		case errors.Is(err, service.ErrInvalidDate):
			respondError(c, http.StatusBadRequest, "无效的日期格式，应为 YYYY-MM-DD")
		default:
			respondError(c, http.StatusInternalServerError, "保存打卡状态失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      payload.Date,
		"habit":     payload.Habit,
		"completed": *payload.Completed,
	})
}
