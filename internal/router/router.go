package router

import (
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/habits", api.ListHabits)
		apiGroup.POST("/habits", api.CreateHabit)
		apiGroup.PUT("/habits/:name/active", api.SetHabitActive)
		apiGroup.DELETE("/habits/:name", api.DeleteHabit)

		apiGroup.PUT("/log/status", api.UpsertStatus)

		apiGroup.GET("/days/:date", api.ShowDay)
		apiGroup.PUT("/days/:date/mood", api.SetDayMood)
		apiGroup.PUT("/days/:date/reflection", api.SetDayReflection)

		analytics := apiGroup.Group("/analytics")
		{
			analytics.GET("/leaderboard", api.Leaderboard)
			analytics.GET("/daily", api.DailyCompletionCounts)
			analytics.GET("/calendar/:habit", api.ConsistencyCalendar)
			analytics.GET("/moods", api.MoodSeries)
			analytics.GET("/mood-vocabulary", api.MoodVocabulary)
		}
	}

	return r
}
