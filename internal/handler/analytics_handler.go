package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Leaderboard 返回排行榜：每个习惯的连胜、徽章与累计完成数，按连胜降序。
func (a *API) Leaderboard(c *gin.Context) {
	l := a.records.Load()
	c.JSON(http.StatusOK, gin.H{"rows": a.analytics.Leaderboard(l)})
}

// DailyCompletionCounts 返回每日完成数趋势（稀疏序列，按时间升序）。
func (a *API) DailyCompletionCounts(c *gin.Context) {
	l := a.records.Load()
	c.JSON(http.StatusOK, gin.H{"points": a.analytics.DailyCompletionCounts(l)})
}

// ConsistencyCalendar 返回习惯的稠密打卡日历，窗口大小可用 window 查询参数覆盖。
// 未知习惯返回全零日历而非报错。
func (a *API) ConsistencyCalendar(c *gin.Context) {
	habit := c.Param("habit")
	window := parsePositiveInt(c.Query("window"), a.heatmapWindow)

	l := a.records.Load()
	points := a.analytics.ConsistencyCalendar(l, habit, window)

	c.JSON(http.StatusOK, gin.H{
		"habit":  habit,
		"window": window,
		"points": points,
	})
}

// MoodSeries 返回心情趋势，点位附带词表中的展示文案。
func (a *API) MoodSeries(c *gin.Context) {
	l := a.records.Load()

	items := make([]gin.H, 0)
	for _, point := range a.analytics.MoodSeries(l) {
		items = append(items, gin.H{
			"date":       point.Date,
			"mood":       point.Mood,
			"mood_label": a.moods[point.Mood],
		})
	}

	c.JSON(http.StatusOK, gin.H{"points": items})
}

// MoodVocabulary 返回心情词表，按编码升序。
func (a *API) MoodVocabulary(c *gin.Context) {
	codes := make([]int, 0, len(a.moods))
	for code := range a.moods {
		codes = append(codes, code)
	}
	sort.Ints(codes)

	items := make([]gin.H, 0, len(codes))
	for _, code := range codes {
		items = append(items, gin.H{"code": code, "label": a.moods[code]})
	}

	c.JSON(http.StatusOK, gin.H{"moods": items})
}
