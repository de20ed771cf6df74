package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encuesta/internal/model"

	"go.uber.org/zap"
)

var (
	ErrMissingAPIKey = errors.New("survey API key not configured")
	ErrNotFound      = errors.New("not found")
)

// APIError is a non-2xx answer from the survey API
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("survey API %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Rejected reports whether the API refused the submitted value. Auth and
// rate-limit failures are not rejections of the value.
func (e *APIError) Rejected() bool {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		return true
	}
	return false
}

// SurveySource loads survey documents
type SurveySource interface {
	GetSurvey(ctx context.Context, id int64) (*model.Survey, error)
}

// InvitationValidator checks invitation codes
type InvitationValidator interface {
	ValidateInvitationCode(ctx context.Context, code string) (bool, error)
}

// EmailValidator checks that an email has not answered the survey yet
type EmailValidator interface {
	ValidateEmail(ctx context.Context, email string, surveyID int64) (bool, error)
}

// ProgressStore persists resume snapshots keyed by (email, survey)
type ProgressStore interface {
	SaveProgress(ctx context.Context, snap *model.ProgressSnapshot) error
	GetProgress(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error)
	DeleteProgress(ctx context.Context, email string, surveyID int64) error
}

// ResponseSubmitter delivers a completed survey
type ResponseSubmitter interface {
	SubmitResponse(ctx context.Context, payload model.SubmissionPayload) error
}

// RemoteAPI is everything the wizard needs from the survey backend
type RemoteAPI interface {
	SurveySource
	InvitationValidator
	EmailValidator
	ProgressStore
	ResponseSubmitter
}

// APIClient talks to the survey backend. Requests are never retried.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates a new survey API client
func NewAPIClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *APIClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if apiKey == "" {
		logger.Warn("survey API key not set")
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("api_client"),
	}
}

// IsConfigured returns true if the API key is set
func (c *APIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// doRequest performs one request and returns the body of a 2xx answer
func (c *APIClient) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("request", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return nil, apiErr
	}

	return respBody, nil
}

// check turns a validation endpoint answer into a verdict. 400, 404 and
// 409 are rejections; everything else that fails is an error.
func (c *APIClient) check(ctx context.Context, path string, body interface{}) (bool, error) {
	_, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		return false, nil
	}
	return false, err
}

// GetSurvey fetches GET /surveys/{id}/
func (c *APIClient) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/surveys/%d/", id), nil)
	if err != nil {
		return nil, err
	}

	var survey model.Survey
	if err := json.Unmarshal(respBody, &survey); err != nil {
		return nil, fmt.Errorf("failed to parse survey: %w", err)
	}
	return &survey, nil
}

// ValidateInvitationCode posts the code to /invitation-code/
func (c *APIClient) ValidateInvitationCode(ctx context.Context, code string) (bool, error) {
	return c.check(ctx, "/invitation-code/", map[string]string{
		"invitation_code": code,
	})
}

// ValidateEmail asks /participant/has-answer/ whether the email may still answer
func (c *APIClient) ValidateEmail(ctx context.Context, email string, surveyID int64) (bool, error) {
	return c.check(ctx, "/participant/has-answer/", map[string]interface{}{
		"email":     email,
		"survey_id": surveyID,
	})
}

func progressPath(email string, surveyID int64) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("survey", fmt.Sprint(surveyID))
	return "/progress/?" + q.Encode()
}

// SaveProgress overwrites the stored snapshot for the snapshot's key
func (c *APIClient) SaveProgress(ctx context.Context, snap *model.ProgressSnapshot) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/progress/", snap.SaveRequest())
	return err
}

// GetProgress returns nil, nil when nothing is stored
func (c *APIClient) GetProgress(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, progressPath(email, surveyID), nil)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap model.ProgressSnapshot
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse progress: %w", err)
	}
	return &snap, nil
}

// DeleteProgress removes the stored snapshot
func (c *APIClient) DeleteProgress(ctx context.Context, email string, surveyID int64) error {
	_, err := c.doRequest(ctx, http.MethodDelete, progressPath(email, surveyID), nil)
	return err
}

// SubmitResponse posts the final answers to /response/
func (c *APIClient) SubmitResponse(ctx context.Context, payload model.SubmissionPayload) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/response/", payload)
	return err
}
