package server

import (
	"linksift/internal/core/discover"
	"linksift/internal/core/job"
	"linksift/internal/health"
	"linksift/internal/platform/crawlapi"
	"linksift/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Job      *job.JobService
	Discover *discover.Service
	Redis    *redis.Service
	Engine   *crawlapi.Client
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.Handler {
	healthHandler := health.NewHandler(d.Redis, d.Engine)
	app.Get("/v1/health", health.Limiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	discoverHandler := discover.NewHandler(d.Discover, d.Job)
	api.Get("/links", discoverHandler.HandleGetLinks)
	api.Post("/discover", discoverHandler.HandleCreateDiscover)
	api.Get("/discover/:jobId", discoverHandler.HandleGetDiscover)

	return healthHandler
}
