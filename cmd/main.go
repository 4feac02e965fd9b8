package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"linksift/internal/config"
	"linksift/internal/core/discover"
	"linksift/internal/core/job"
	"linksift/internal/logger"
	"linksift/internal/platform/crawlapi"
	rds "linksift/internal/platform/redis"
	tasks "linksift/internal/platform/tasks"
	"linksift/internal/server"
	"linksift/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[linksift] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	engine := crawlapi.NewClient(cfg.EngineURL, cfg.EngineAPIKey, time.Duration(cfg.EngineTimeoutSeconds)*time.Second)

	jobSvc := job.NewJobService(redisSvc)
	discoverSvc := discover.NewService(jobSvc, taskClient, engine, cfg)

	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeDiscover, discoverSvc.HandleDiscoverTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "Linksift",
		// Hrefs are the payload here; escaped HTML would mangle them.
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{
		Job:      jobSvc,
		Discover: discoverSvc,
		Redis:    redisSvc,
		Engine:   engine,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	go func() {
		time.Sleep(2 * time.Second)
		healthHandler.SetReady()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
