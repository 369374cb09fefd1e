package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"recruitai/assistant/internal/models"
)

// DefaultCandidateName is used when no candidate name could be derived from
// the uploaded resume.
const DefaultCandidateName = "Candidate"

// AnalysisError covers every failure mode of the remote analysis call:
// transport errors, non-2xx responses and undecodable bodies all look the
// same to the caller.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

type AnalysisClient interface {
	Analyze(ctx context.Context, candidateName, resumeText, jobDescriptionText string) (*models.AnalysisResult, error)
}

type analysisRequest struct {
	CandidateName  string `json:"candidate_name"`
	ResumeContent  string `json:"resume_content"`
	JobDescription string `json:"job_description"`
}

type analysisClient struct {
	webhookURL string
	httpClient *http.Client
}

func NewAnalysisClient(webhookURL string, timeout time.Duration) AnalysisClient {
	return &analysisClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze issues exactly one request to the analysis webhook. There is no
// retry, no caching and no coalescing of concurrent calls; the workflow's
// in-flight flag is the only duplicate-submission guard.
func (c *analysisClient) Analyze(ctx context.Context, candidateName, resumeText, jobDescriptionText string) (*models.AnalysisResult, error) {
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}
	if jobDescriptionText == "" {
		return nil, fmt.Errorf("job description text is empty")
	}
	if candidateName == "" {
		candidateName = DefaultCandidateName
	}

	body, err := json.Marshal(analysisRequest{
		CandidateName:  candidateName,
		ResumeContent:  resumeText,
		JobDescription: jobDescriptionText,
	})
	if err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("call analysis webhook: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AnalysisError{Err: fmt.Errorf("analysis webhook returned HTTP %d", resp.StatusCode)}
	}

	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &AnalysisError{Err: fmt.Errorf("decode analysis response: %w", err)}
	}

	// The name entered on our side is authoritative over whatever the
	// remote service inferred.
	result.CandidateName = candidateName

	return &result, nil
}
