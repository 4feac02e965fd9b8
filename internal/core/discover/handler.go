package discover

import (
	"linksift/internal/core/job"
	"linksift/internal/core/links"
	"linksift/internal/utils/queryparse"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
	job     *job.JobService
}

func NewHandler(service *Service, jobSvc *job.JobService) *Handler {
	return &Handler{service: service, job: jobSvc}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type linksResponse struct {
	Success bool           `json:"success"`
	URL     string         `json:"url"`
	Stats   *job.Stats     `json:"stats,omitempty"`
	Records []links.Record `json:"records"`
}

type createResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

type statusResponse struct {
	Success bool                `json:"success"`
	JobID   string              `json:"job_id"`
	Status  string              `json:"status"`
	Data    *job.DiscoverResult `json:"data,omitempty"`
}

// HandleGetLinks runs a synchronous single-page discovery.
func (h *Handler) HandleGetLinks(c *fiber.Ctx) error {
	var req Request
	if err := queryparse.Bind(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid query"})
	}

	records, stats, err := h.service.Discover(c.Context(), req)
	if err != nil {
		if IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(linksResponse{Success: true, URL: req.URL, Stats: stats, Records: records})
}

// HandleCreateDiscover enqueues an async discovery job.
func (h *Handler) HandleCreateDiscover(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid body"})
	}
	id, err := h.service.Enqueue(c.Context(), req)
	if err != nil {
		if IsValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(createResponse{Success: true, JobID: id})
}

// HandleGetDiscover reports the status (and, once completed, the result)
// of an async discovery job.
func (h *Handler) HandleGetDiscover(c *fiber.Ctx) error {
	id := c.Params("jobId")
	j, err := h.job.GetJobStatus(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not_found"})
	}
	resp := statusResponse{Success: true, JobID: id, Status: string(j.Status)}
	if (j.Status == job.StatusCompleted || j.Status == job.StatusFailed) && j.Results.DiscoverResult != nil {
		resp.Data = j.Results.DiscoverResult
	}
	return c.JSON(resp)
}
