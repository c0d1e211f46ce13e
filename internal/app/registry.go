package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/attendance"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/auth"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/leave"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/messaging/kafka"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/payroll"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/profile"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/rbac"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewServiceWithOutbox(db, authRepo, outboxRepo)
	profileService := profile.NewService(db, profileRepo, counterRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	payrollService := payroll.NewService(db, payrollRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	leaveHandler := leave.NewHandler(leaveService)
	attendanceHandler := attendance.NewHandler(attendanceService, rdb)
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		profile.RegisterRoutes(api, profileHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
	}

	return nil
}
