package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"linksift/internal/logger"
	"linksift/internal/platform/crawlapi"
	"linksift/internal/platform/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handler reports readiness and the health of downstream dependencies.
type Handler struct {
	log       *logger.Logger
	redis     *redis.Service
	engine    *crawlapi.Client
	startTime time.Time
	isReady   bool
}

func NewHandler(redisSvc *redis.Service, engine *crawlapi.Client) *Handler {
	return &Handler{
		log:       logger.New("HealthCheck"),
		redis:     redisSvc,
		engine:    engine,
		startTime: time.Now(),
	}
}

// SetReady marks the application as ready to receive traffic.
func (h *Handler) SetReady() {
	h.isReady = true
	h.log.LogSuccessf("application ready for traffic after %v", time.Since(h.startTime))
}

type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type OverallHealth struct {
	OverallStatus string                     `json:"overall_status"`
	Timestamp     string                     `json:"timestamp"`
	Ready         bool                       `json:"ready"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Components    map[string]ComponentStatus `json:"components"`
}

// HandleHealth checks redis and the crawl engine concurrently and
// reports the combined status.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	h.log.LogDebugf("health check started")

	ctx, cancel := context.WithTimeout(c.Context(), 8*time.Second)
	defer cancel()

	statuses := make(map[string]ComponentStatus)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allOk := true

	check := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		state := "ok"
		var errStr string
		if err := fn(ctx); err != nil {
			state = "error"
			errStr = err.Error()
			h.log.LogErrorf("health check failed for %s: %v", name, err)
		}
		mu.Lock()
		if state != "ok" {
			allOk = false
		}
		statuses[name] = ComponentStatus{Status: state, Error: errStr}
		mu.Unlock()
	}

	wg.Add(2)
	go check("redis", h.redis.HealthCheck)
	go check("engine", h.engine.Health)
	wg.Wait()

	response := OverallHealth{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Ready:         h.isReady,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Components:    statuses,
	}

	if allOk && h.isReady {
		response.OverallStatus = "ok"
		return c.Status(http.StatusOK).JSON(response)
	}
	if !h.isReady {
		response.OverallStatus = "starting"
		return c.Status(http.StatusServiceUnavailable).JSON(response)
	}
	response.OverallStatus = "error"
	h.log.LogWarnf("health check failed: %+v", statuses)
	return c.Status(http.StatusServiceUnavailable).JSON(response)
}

func Limiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "Rate limit exceeded"})
		},
	})
}
