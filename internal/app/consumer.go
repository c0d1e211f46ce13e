package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/profile"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/connection"
	"github.com/anjal-tejani/dayflow-hr-hub/internal/shared/counter"
)

// RunConsumer handles the second step of the signup workflow: it consumes
// signup events and creates the initial profile rows.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	profileRepo := profile.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	profileService := profile.NewService(sqlDB, profileRepo, counterRepo)

	consumer := profile.NewSignupConsumer(
		kafkaBroker,
		"dayflow-profile-signup",
		profileService,
	)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
