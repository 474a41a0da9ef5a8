package routes

import (
	"tasktrack/internal/controller"
	"tasktrack/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Router wires the HTTP surface. Every /todos route runs behind the auth
// middleware; listing included, since lists are always owner-scoped.
func Router(todos *controller.TodoController, authCtl *controller.AuthController) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready)

	router.POST("/auth/signup", authCtl.Signup)
	router.POST("/auth/login", authCtl.Login)

	api := router.Group("")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/todos", todos.ListTodos)
		api.POST("/todos", todos.CreateTodo)
		api.PATCH("/todos/:id", todos.UpdateTodo)
		api.PATCH("/todos/:id/status", todos.SetStatus)
		api.POST("/todos/:id/toggle", todos.ToggleTodo)
		api.DELETE("/todos/:id", todos.DeleteTodo)
	}

	return router
}
