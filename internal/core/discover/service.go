package discover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"linksift/internal/config"
	"linksift/internal/core/job"
	"linksift/internal/core/links"
	"linksift/internal/logger"
	"linksift/internal/platform/crawlapi"
	tasks "linksift/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Service orchestrates link discovery: it asks the crawl engine for a
// page's link inventory and runs the filtering pipeline over the result.
type Service struct {
	job    *job.JobService
	tasks  *tasks.Client
	engine *crawlapi.Client
	log    *logger.Logger
	config config.Config
}

func NewService(jobSvc *job.JobService, taskClient *tasks.Client, engine *crawlapi.Client, cfg config.Config) *Service {
	return &Service{job: jobSvc, tasks: taskClient, engine: engine, log: logger.New("DiscoverService"), config: cfg}
}

// Request is the discovery configuration accepted by both the sync and
// async endpoints. Pattern and extension fields are comma-separated
// strings as entered in a workflow form.
type Request struct {
	URL                string   `json:"url" form:"url"`
	LinkTypes          []string `json:"link_types" form:"link_types"`
	IncludePatterns    string   `json:"include_patterns" form:"include_patterns"`
	ExcludePatterns    string   `json:"exclude_patterns" form:"exclude_patterns"`
	ExcludeFileTypes   string   `json:"exclude_file_types" form:"exclude_file_types"`
	ExcludeSocialMedia bool     `json:"exclude_social_media" form:"exclude_social_media"`
	RequireText        bool     `json:"require_text" form:"require_text"`
	Deduplicate        bool     `json:"deduplicate" form:"deduplicate"`
	IncludeMetadata    bool     `json:"include_metadata" form:"include_metadata"`
	OutputFormat       string   `json:"output_format" form:"output_format"`

	// Options passed through to the crawl engine untouched.
	RenderJS  bool   `json:"render_js" form:"render_js"`
	Fresh     bool   `json:"fresh" form:"fresh"`
	UserAgent string `json:"user_agent" form:"user_agent"`

	WebhookURL     string            `json:"webhook_url"`
	WebhookHeaders map[string]string `json:"webhook_headers"`
}

// ValidationError marks caller mistakes so handlers can map them to 400
// instead of 502.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, v ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, v...)}
}

// IsValidationError reports whether err is a caller mistake rather than
// an engine or infrastructure failure.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) || errors.Is(err, links.ErrNoLinkTypes)
}

func (r Request) typeSet() (links.TypeSet, error) {
	var ts links.TypeSet
	for _, t := range r.LinkTypes {
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "internal":
			ts.Internal = true
		case "external":
			ts.External = true
		case "":
		default:
			return ts, invalidf("unknown link type %q", t)
		}
	}
	return ts, nil
}

func (r Request) mode() (links.Mode, error) {
	switch r.OutputFormat {
	case "", string(links.ModeGrouped):
		return links.ModeGrouped, nil
	case string(links.ModeSplit):
		return links.ModeSplit, nil
	default:
		return "", invalidf("unknown output format %q", r.OutputFormat)
	}
}

// Discover runs one synchronous discovery: crawl, filter, format.
func (s *Service) Discover(ctx context.Context, req Request) ([]links.Record, *job.Stats, error) {
	if req.URL == "" {
		return nil, nil, invalidf("url is required")
	}
	// Validate the configuration before spending a crawl on it.
	if _, err := req.mode(); err != nil {
		return nil, nil, err
	}
	ts, err := req.typeSet()
	if err != nil {
		return nil, nil, err
	}
	if !ts.Internal && !ts.External {
		return nil, nil, links.ErrNoLinkTypes
	}

	res, err := s.engine.Crawl(ctx, crawlapi.CrawlRequest{
		URL:       req.URL,
		RenderJS:  req.RenderJS,
		Fresh:     req.Fresh,
		UserAgent: req.UserAgent,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("crawl engine: %w", err)
	}
	if !res.Success {
		return nil, nil, fmt.Errorf("crawl failed for %s: %s", req.URL, res.Error)
	}

	records, stats, err := runPipeline(res.Links, req, s.config.Filters)
	if err != nil {
		return nil, nil, err
	}
	s.log.LogSuccessf("discover ok url=%s internal=%d external=%d records=%d",
		req.URL, stats.TotalInternal, stats.TotalExternal, len(records))
	return records, stats, nil
}

// runPipeline applies the filtering pipeline to an already-resolved link
// collection. Kept free of I/O so it can be exercised directly in tests.
func runPipeline(col crawlapi.LinkCollection, req Request, defaults config.FilterDefaults) ([]links.Record, *job.Stats, error) {
	ts, err := req.typeSet()
	if err != nil {
		return nil, nil, err
	}
	mode, err := req.mode()
	if err != nil {
		return nil, nil, err
	}

	criteria := links.NewCriteria(links.CriteriaConfig{
		IncludePatterns:    req.IncludePatterns,
		ExcludePatterns:    req.ExcludePatterns,
		ExcludeFileTypes:   req.ExcludeFileTypes,
		ExcludeSocialMedia: req.ExcludeSocialMedia,
		RequireText:        req.RequireText,
		ExtraSocialDomains: defaults.SocialDomains,
		ExtraBlockedExts:   defaults.BlockedExtensions,
	})

	processed, err := links.Process(col, ts, criteria, req.Deduplicate)
	if err != nil {
		return nil, nil, err
	}

	stats := &job.Stats{
		TotalInternal: len(processed.Internal),
		TotalExternal: len(processed.External),
		TotalLinks:    len(processed.Internal) + len(processed.External),
	}
	return links.FormatRecords(processed, mode, req.IncludeMetadata), stats, nil
}

// TaskPayload is the queued representation of an async discovery job.
type TaskPayload struct {
	JobID   string  `json:"job_id"`
	Request Request `json:"request"`
}

// Enqueue submits an async discovery job and returns its ID.
func (s *Service) Enqueue(ctx context.Context, req Request) (string, error) {
	if req.URL == "" {
		return "", invalidf("url is required")
	}
	// Fail bad configurations at submit time, not inside the worker.
	if _, err := req.mode(); err != nil {
		return "", err
	}
	ts, err := req.typeSet()
	if err != nil {
		return "", err
	}
	if !ts.Internal && !ts.External {
		return "", links.ErrNoLinkTypes
	}

	id := uuid.New().String()
	payload, _ := json.Marshal(TaskPayload{JobID: id, Request: req})
	if err := s.job.InitPending(ctx, id, req.URL); err != nil {
		return "", err
	}
	task := asynq.NewTask(tasks.TaskTypeDiscover, payload)
	if err := s.tasks.Enqueue(task, "default", s.config.TaskMaxRetries); err != nil {
		return "", err
	}
	s.log.LogInfof("enqueued discover job %s for %s", id, req.URL)
	return id, nil
}

// HandleDiscoverTask is the asynq worker entry point.
func (s *Service) HandleDiscoverTask(ctx context.Context, task *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	s.log.LogInfof("processing discover job %s for %s", p.JobID, p.Request.URL)
	if err := s.job.SetProcessing(ctx, p.JobID); err != nil {
		return err
	}

	records, stats, err := s.Discover(ctx, p.Request)
	if err != nil {
		s.log.LogErrorf("discover job %s failed: %v", p.JobID, err)
		failed := &job.DiscoverResult{URL: p.Request.URL, Error: err.Error()}
		if cerr := s.job.Complete(ctx, p.JobID, job.StatusFailed, failed); cerr != nil {
			return cerr
		}
		if IsValidationError(err) {
			// Retrying a caller mistake cannot succeed.
			return nil
		}
		return err
	}

	result := &job.DiscoverResult{URL: p.Request.URL, Records: records, Stats: stats}
	if err := s.job.Complete(ctx, p.JobID, job.StatusCompleted, result); err != nil {
		return err
	}
	s.log.LogInfof("completed discover job %s: internal=%d external=%d records=%d",
		p.JobID, stats.TotalInternal, stats.TotalExternal, len(records))

	if p.Request.WebhookURL != "" {
		s.notifyWebhook(ctx, p.JobID, "completed", result, p.Request.WebhookURL, p.Request.WebhookHeaders)
	}
	return nil
}
