package discover

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"linksift/internal/core/job"
)

// notifyWebhook delivers the finished job to the caller's webhook URL.
// Delivery is best effort; failures are logged, never retried.
func (s *Service) notifyWebhook(ctx context.Context, jobID, status string, result *job.DiscoverResult, webhookURL string, headers map[string]string) {
	s.log.LogInfof("sending webhook for job %s to %s", jobID, webhookURL)

	payload := map[string]interface{}{
		"job_id": jobID,
		"type":   "discover",
		"status": status,
		"data":   result,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.LogErrorf("marshal webhook payload for job %s: %v", jobID, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		s.log.LogErrorf("build webhook request for job %s: %v", jobID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Linksift/1.0")
	req.Header.Set("X-Linksift-Event", "discover."+status)
	req.Header.Set("X-Linksift-Job-ID", jobID)

	if s.config.SystemAuthSecret != "" {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		req.Header.Set("X-System-Timestamp", timestamp)
		req.Header.Set("X-System-Signature", signPayload(s.config.SystemAuthSecret, timestamp, body))
	} else {
		s.log.LogWarnf("system auth secret not configured, webhook may fail authentication")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		s.log.LogWarnf("webhook delivery failed for job %s to %s: %v", jobID, webhookURL, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.log.LogInfof("webhook delivered for job %s (status %d)", jobID, resp.StatusCode)
	} else {
		s.log.LogWarnf("webhook returned status %d for job %s", resp.StatusCode, jobID)
	}
}

// signPayload computes the HMAC the receiving side verifies: the
// signature covers timestamp + body.
func signPayload(secret, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(timestamp))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
