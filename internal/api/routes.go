package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint. authService may be nil in local mode,
// where routes are open and no identity is attached to requests.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	routineService service.RoutineService,
	historyService service.HistoryService,
	exportService service.ExportService,
) {
	routineHandler := NewRoutineHandler(routineService)
	workoutHandler := NewWorkoutHandler(historyService, exportService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "mode": routineService.Mode()})
	})

	apiV1 := router.Group("/api/v1")

	guard := LocalMiddleware()
	if routineService.Mode() == service.ModeRemote {
		authHandler := NewAuthHandler(authService)
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
		guard = AuthMiddleware(jwtSecret)
	}

	protected := apiV1.Group("")
	protected.Use(guard)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				c.JSON(http.StatusOK, gin.H{"mode": routineService.Mode()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID, "mode": routineService.Mode()})
		})

		routineGroup := protected.Group("/routines")
		{
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.POST("/refresh", routineHandler.RefreshRoutines)
			routineGroup.PUT("/:id", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", routineHandler.DeleteRoutine)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.RecordWorkout)
			workoutGroup.GET("", workoutHandler.GetWorkoutHistory)
			workoutGroup.POST("/export", workoutHandler.ExportHistory)
			workoutGroup.GET("/:id", workoutHandler.GetWorkoutDetail)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}
	}
}
