package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// Extractor fetches current weather observations from the provider's HTTP API.
// One Fetch call is one outbound request; retry accounting lives in the task
// runner, not here.
type Extractor struct {
	apiKey string
	apiURL string
	client *http.Client
}

func New(apiKey, apiURL string, timeout time.Duration) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key is required", task.ErrConfiguration)
	}
	return &Extractor{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Fetch issues a single GET for the location's current weather and returns the
// provider's document untyped. Network and non-2xx failures are transient;
// an unparseable or empty body is a validation failure.
func (e *Extractor) Fetch(ctx context.Context, location string) (models.RawPayload, error) {
	req, err := e.buildRequest(ctx, location)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: request timeout: %v", task.ErrTransient, err)
		}
		return nil, fmt.Errorf("%w: http request failed: %v", task.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: weather API returned HTTP %d", task.ErrTransient, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", task.ErrTransient, err)
	}

	var payload models.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", task.ErrValidation, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty response from weather API", task.ErrValidation)
	}
	return payload, nil
}

func (e *Extractor) buildRequest(ctx context.Context, location string) (*http.Request, error) {
	baseURL, err := url.Parse(e.apiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid API URL: %v", task.ErrConfiguration, err)
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", e.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", task.ErrTransient, err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}
