package main

import (
	"context"
	"os"

	"data-validation/internal/config"
	"data-validation/internal/database"
	"data-validation/internal/service"
	"data-validation/internal/utils"
	"data-validation/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log = utils.NewLogger(cfg.LogLevel, os.Stdout)

	var db *sqlx.DB
	if cfg.DBEnabled {
		db, err = database.NewMySQL(cfg)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
	}

	// Redis backs the queue, so it is required here
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	validationService, err := service.NewValidationServiceFromConfig(cfg, db, redisClient, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize validator")
	}

	// Runs never validate in parallel
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency: 1,
			Logger:      log,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithError(err).WithField("task_type", task.Type()).Error("Error processing task")
			}),
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, validationService, log)

	// Run shuts the server down on SIGINT or SIGTERM
	log.Info("Worker starting with concurrency: 1")
	if err := srv.Run(mux); err != nil {
		log.WithError(err).Fatal("Failed to start worker")
	}

	log.Info("Worker exited")
}
