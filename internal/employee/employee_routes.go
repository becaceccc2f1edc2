package employee

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the employee endpoints. createMiddleware runs in
// front of POST /employees only.
func RegisterRoutes(r gin.IRouter, h *Handler, createMiddleware ...gin.HandlerFunc) {
	employees := r.Group("/employees")
	{
		employees.GET("", h.GetAll)
		employees.GET("/export", h.Export)
		employees.GET("/:id", h.GetByID)
		employees.POST("", append(createMiddleware, h.Create)...)
		employees.PATCH("/:id", h.Update)
		employees.DELETE("/:id", h.Delete)
	}
}
