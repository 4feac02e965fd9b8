package job

import (
	"context"
	"fmt"

	rds "linksift/internal/platform/redis"
)

type JobService struct{ redis *rds.Service }

func NewJobService(redis *rds.Service) *JobService { return &JobService{redis: redis} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var j Job
	if err := s.redis.CacheGet(ctx, key(jobID), &j); err != nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return &j, nil
}

func (s *JobService) store(ctx context.Context, jobID string, status Status, result *DiscoverResult) error {
	var j Job
	_ = s.redis.CacheGet(ctx, key(jobID), &j)
	j.JobID = jobID
	j.Type = TypeDiscover
	j.Status = status
	if result != nil {
		j.Results = JobResult{DiscoverResult: result}
	}
	if err := s.redis.CacheSet(ctx, key(jobID), j, ttl(status)); err != nil {
		return err
	}
	// Notify any status listeners subscribed to the job channel.
	_ = s.redis.Client().Publish(ctx, key(jobID), "updated").Err()
	return nil
}

func (s *JobService) InitPending(ctx context.Context, jobID, url string) error {
	return s.store(ctx, jobID, StatusPending, &DiscoverResult{URL: url})
}

func (s *JobService) SetProcessing(ctx context.Context, jobID string) error {
	return s.store(ctx, jobID, StatusProcessing, nil)
}

func (s *JobService) Complete(ctx context.Context, jobID string, status Status, result *DiscoverResult) error {
	return s.store(ctx, jobID, status, result)
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s == StatusCompleted || s == StatusFailed {
		return 3600
	}
	return 600
}
