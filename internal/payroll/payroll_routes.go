package payroll

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
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/me", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.ViewMine)
		payroll.GET("/me/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
		payroll.GET("/:user_id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.View)
		payroll.GET("/:user_id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
		payroll.PUT("/:user_id", middleware.RBACAuthorize(rbacService, "payroll", "write"), handler.Upsert)
	}
}
