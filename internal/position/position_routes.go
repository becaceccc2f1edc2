package position

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, h *Handler) {
	positions := r.Group("/positions")
	{
		positions.GET("", h.GetAll)
		positions.POST("", h.Create)
		positions.GET("/:id", h.GetByID)
		positions.PATCH("/:id", h.Update)
		positions.DELETE("/:id", h.Delete)
	}
}
