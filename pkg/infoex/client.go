package infoex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"infoex-agent-service/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

// endpointMap routes observation types to their InfoEx API paths.
var endpointMap = map[string]string{
	TypeFieldSummary:         "/observation/fieldSummary",
	TypeAvalancheObservation: "/observation/avalanche",
	TypeAvalancheSummary:     "/observation/avalancheSummary",
	TypeHazardAssessment:     "/observation/hazardAssessment",
	TypeSnowpackSummary:      "/observation/snowpackAssessment",
	TypeSnowProfile:          "/observation/snowpack",
	TypeTerrainObservation:   "/observation/terrain",
	TypePersistentWeakLayer:  "/pwl",
}

// Endpoint returns the API path for an observation type.
func Endpoint(obsType string) (string, bool) {
	path, ok := endpointMap[obsType]
	return path, ok
}

const (
	submitTimeout    = 30 * time.Second
	queryTimeout     = 10 * time.Second
	locationCacheKey = "locations"
	locationCacheTTL = 5 * time.Minute
)

// SubmissionResult records the outcome of one observation submission.
type SubmissionResult struct {
	ObservationType string    `json:"observation_type"`
	Success         bool      `json:"success"`
	UUID            string    `json:"uuid,omitempty"`
	Error           string    `json:"error,omitempty"`
	FieldErrors     []FieldError `json:"field_errors,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// BatchResult aggregates a sequential multi-observation submission.
// Success is true only when every submission succeeded.
type BatchResult struct {
	Success     bool               `json:"success"`
	Total       int                `json:"total"`
	Successful  int                `json:"successful"`
	Failed      int                `json:"failed"`
	Submissions []SubmissionResult `json:"submissions"`
}

// Observation pairs a type with its ready payload for batch submission.
type Observation struct {
	Type    string
	Payload map[string]any
}

// Location is an operating zone the operation can report against.
type Location struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// IClient is the InfoEx API surface the rest of the service depends on.
type IClient interface {
	Submit(ctx context.Context, obsType string, payload map[string]any) (SubmissionResult, error)
	SubmitMultiple(ctx context.Context, observations []Observation) BatchResult
	TestConnection(ctx context.Context) bool
	Locations(ctx context.Context) ([]Location, error)
}

type client struct {
	baseURL       string
	apiKey        string
	operationUUID string
	httpClient    *http.Client
	cache         *gocache.Cache
	log           logger.ILogger
}

// NewClient builds the InfoEx API client. Every request carries the api_key
// and operation headers; location lookups are cached in-process.
func NewClient(baseURL, apiKey, operationUUID string, log logger.ILogger) IClient {
	return &client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		operationUUID: operationUUID,
		httpClient:    &http.Client{Timeout: submitTimeout},
		cache:         gocache.New(locationCacheTTL, 10*time.Minute),
		log:           log,
	}
}

func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("api_key", c.apiKey)
	req.Header.Set("operation", c.operationUUID)
	req.Header.Set("Content-Type", "application/json")
}

// Submit sends one observation. The payload is cleaned of internal keys and
// its state forced to SUBMITTED before it leaves the process. Success
// requires a 200 response carrying a uuid.
func (c *client) Submit(ctx context.Context, obsType string, payload map[string]any) (SubmissionResult, error) {
	result := SubmissionResult{ObservationType: obsType, SubmittedAt: time.Now().UTC()}

	endpoint, ok := endpointMap[obsType]
	if !ok {
		err := newTransportFailure(fmt.Sprintf("unknown observation type: %s", obsType))
		result.Error = err.Error()
		return result, err
	}

	clean := StripInternalKeys(payload)
	clean["state"] = StateSubmitted

	body, err := json.Marshal(clean)
	if err != nil {
		subErr := newTransportFailure(fmt.Sprintf("marshal payload: %v", err))
		result.Error = subErr.Error()
		return result, subErr
	}

	c.log.Info("infoex", "submitting observation", map[string]interface{}{
		"observation_type": obsType,
		"endpoint":         endpoint,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		subErr := newTransportFailure(fmt.Sprintf("create request: %v", err))
		result.Error = subErr.Error()
		return result, subErr
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var subErr *SubmissionError
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			subErr = newTimeout(err.Error())
		} else {
			subErr = newTransportFailure(err.Error())
		}
		c.log.Error("infoex", "submission failed", map[string]interface{}{
			"observation_type": obsType,
			"error":            subErr.Error(),
		})
		result.Error = subErr.Error()
		return result, subErr
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		subErr := c.parseRejection(resp.StatusCode, raw)
		c.log.Error("infoex", "submission rejected", map[string]interface{}{
			"observation_type": obsType,
			"status_code":      resp.StatusCode,
		})
		result.Error = subErr.Error()
		result.FieldErrors = subErr.FieldErrors
		return result, subErr
	}

	var parsed struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.UUID == "" {
		subErr := newNoIdentifier(string(raw))
		c.log.Error("infoex", "submission returned no uuid", map[string]interface{}{
			"observation_type": obsType,
		})
		result.Error = subErr.Error()
		return result, subErr
	}

	c.log.Info("infoex", "submission successful", map[string]interface{}{
		"observation_type": obsType,
		"uuid":             parsed.UUID,
	})
	result.Success = true
	result.UUID = parsed.UUID
	return result, nil
}

// parseRejection pulls field-level errors out of an InfoEx error response
// when the body is JSON of the expected shape, falling back to raw text.
func (c *client) parseRejection(status int, raw []byte) *SubmissionError {
	var parsed struct {
		Message string `json:"message"`
		Errors  []struct {
			Field        string `json:"field"`
			Error        string `json:"error"`
			ErrorDetails string `json:"errorDetails"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return newRemoteRejection(status, string(raw), nil)
	}

	fields := make([]FieldError, 0, len(parsed.Errors))
	for _, e := range parsed.Errors {
		detail := e.ErrorDetails
		if detail == "" {
			detail = e.Error
		}
		field := e.Field
		if field == "" {
			field = "Unknown"
		}
		fields = append(fields, FieldError{Field: field, Detail: detail})
	}

	message := parsed.Message
	if message == "" {
		message = string(raw)
	}
	return newRemoteRejection(status, message, fields)
}

// SubmitMultiple sends observations one at a time, never aborting the batch
// on a failure. The counts always satisfy total = successful + failed.
func (c *client) SubmitMultiple(ctx context.Context, observations []Observation) BatchResult {
	batch := BatchResult{Success: true, Total: len(observations)}

	for _, obs := range observations {
		result, err := c.Submit(ctx, obs.Type, obs.Payload)
		if err != nil {
			batch.Failed++
			batch.Success = false
		} else {
			batch.Successful++
		}
		batch.Submissions = append(batch.Submissions, result)
	}

	c.log.Info("infoex", "batch submission complete", map[string]interface{}{
		"total":      batch.Total,
		"successful": batch.Successful,
		"failed":     batch.Failed,
	})
	return batch
}

// TestConnection probes the constants endpoint.
func (c *client) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/observation/constants/", nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("infoex", "connection test failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.log.Error("infoex", "connection test failed", map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return false
	}
	return true
}

// Locations returns the operation's operating zones, cached for a few
// minutes so repeated session starts do not hammer the API.
func (c *client) Locations(ctx context.Context) ([]Location, error) {
	if cached, found := c.cache.Get(locationCacheKey); found {
		return cached.([]Location), nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("operationUUID", c.operationUUID)
	query.Set("type", "OPERATING_ZONE")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/location?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch locations: status %d", resp.StatusCode)
	}

	var locations []Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}

	c.cache.Set(locationCacheKey, locations, locationCacheTTL)
	c.log.Info("infoex", "locations retrieved", map[string]interface{}{"count": len(locations)})
	return locations, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
