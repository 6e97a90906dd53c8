package routes

import (
	"net/http"

	"todo-web/internal/controller"
	"todo-web/internal/middleware"
	"todo-web/internal/web"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine. Callers choose the gin mode beforehand.
func Router(todos *controller.TodoController) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
	)
	router.NoRoute(controller.NotFound)
	router.NoMethod(controller.MethodNotAllowed)

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", todos.Ready)
	router.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	// Page
	router.GET("/", controller.Index)
	router.StaticFS("/static", http.FS(web.Assets()))

	// API
	router.GET("/todos", todos.GetTodos)
	router.POST("/todos", todos.CreateTodo)
	router.DELETE("/todos/:index", todos.DeleteTodoAt)
	router.DELETE("/todos/id/:id", todos.DeleteTodoByID)

	return router
}
