package leave

import (
	"github.com/gin-gonic/gin"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/middleware"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Submit)
		leaves.POST("/:id/review", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Review)
	}
}
