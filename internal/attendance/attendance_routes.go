package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/middleware"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	records := r.Group("/attendance")
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetAll)
		records.POST("/check-in",
			middleware.RBACAuthorize(rbacService, "attendance", "write"),
			middleware.Idempotency(redisClient),
			handler.CheckIn,
		)
		records.POST("/check-out",
			middleware.RBACAuthorize(rbacService, "attendance", "write"),
			handler.CheckOut,
		)
	}
}
