package profile

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
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/me", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetMe)
		profiles.GET("", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetAll)
		profiles.GET("/:id", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetById)
		profiles.PATCH("/me", middleware.RBACAuthorize(rbacService, "profile", "update_self"), handler.UpdateSelf)
		profiles.PUT("/:id", middleware.RBACAuthorize(rbacService, "profile", "manage"), handler.AdminUpdate)
	}
}
