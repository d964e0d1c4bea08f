package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"opensky-state-decoder/internal/decoder"
	"opensky-state-decoder/internal/metrics"
	"opensky-state-decoder/internal/model"
	"opensky-state-decoder/internal/processor"
	"opensky-state-decoder/pkg/logger"
)

// OpenSkyClient fetches raw /states/all replies and hands them to the decoder.
type OpenSkyClient struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	logger     *logger.Logger
	metrics    *metrics.Metrics
	limiter    *processor.RateLimiter
	rawSink    io.Writer
}

// NewOpenSkyClient creates a new OpenSky API client
func NewOpenSkyClient(baseURL string, timeout time.Duration, username, password string, log *logger.Logger, m *metrics.Metrics) *OpenSkyClient {
	return &OpenSkyClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		username: username,
		password: password,
		logger:   log,
		metrics:  m,
	}
}

// WithRateLimiter makes every request wait for a token from rl.
func (c *OpenSkyClient) WithRateLimiter(rl *processor.RateLimiter) *OpenSkyClient {
	c.limiter = rl
	return c
}

// WithRawSink copies every raw reply body to w, one reply per line.
func (c *OpenSkyClient) WithRawSink(w io.Writer) *OpenSkyClient {
	c.rawSink = w
	return c
}

// FetchRaw returns the raw reply body. A nil box queries all states.
func (c *OpenSkyClient) FetchRaw(ctx context.Context, box *BoundingBox) (string, error) {
	url := fmt.Sprintf("%s/states/all", c.baseURL)
	if box != nil {
		if err := box.Validate(); err != nil {
			return "", fmt.Errorf("invalid bounding box: %w", err)
		}
		url += "?" + box.Query().Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("Failed to create request: %v", err)
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "opensky-state-decoder/1.0")

	if c.metrics != nil {
		c.metrics.IncrementAPIRequests()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch data from OpenSky: %v", err)
		c.countError()
		return "", fmt.Errorf("failed to fetch data: %w", err)
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordAPILatency(time.Since(startTime))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("OpenSky API returned status %d", resp.StatusCode)
		c.countError()
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read response body: %v", err)
		c.countError()
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if c.rawSink != nil {
		if _, err := fmt.Fprintf(c.rawSink, "%s\n", body); err != nil {
			c.logger.Warn("Failed to save raw reply: %v", err)
		}
	}

	return string(body), nil
}

// FetchStates fetches one reply and decodes it. Diagnostics are logged and
// counted but never fail the call.
func (c *OpenSkyClient) FetchStates(ctx context.Context, box *BoundingBox) (*model.Reply, error) {
	raw, err := c.FetchRaw(ctx, box)
	if err != nil {
		return nil, err
	}
	return c.Decode(raw)
}

// Decode runs the decoder over raw and reports the outcome.
func (c *OpenSkyClient) Decode(raw string) (*model.Reply, error) {
	startTime := time.Now()
	reply, err := decoder.Decode(raw)
	if c.metrics != nil {
		c.metrics.RecordDecode(reply, err, time.Since(startTime))
	}
	if err != nil {
		c.logger.Error("Failed to decode OpenSky reply: %v", err)
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}

	diags := reply.AllDiagnostics()
	for _, d := range diags {
		c.logger.WithField("kind", d.Kind).
			WithField("record", d.Record).
			WithField("field", d.FieldName).
			Debug(d.Message)
	}
	if len(diags) > 0 {
		c.logger.Warn("Decoded %d state vectors with %d diagnostics", len(reply.Vehicles), len(diags))
	} else {
		c.logger.Debug("Decoded %d state vectors", len(reply.Vehicles))
	}

	return reply, nil
}

func (c *OpenSkyClient) countError() {
	if c.metrics != nil {
		c.metrics.IncrementAPIErrors()
	}
}

// PollContinuously polls the OpenSky API at regular intervals until ctx is done.
func (c *OpenSkyClient) PollContinuously(ctx context.Context, interval time.Duration, box *BoundingBox, callback func(*model.Reply)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("Starting continuous polling of OpenSky API every %v", interval)

	poll := func() {
		reply, err := c.FetchStates(ctx, box)
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error("Failed to fetch states during polling: %v", err)
			}
			return
		}
		if callback != nil {
			callback(reply)
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping OpenSky polling")
			return
		case <-ticker.C:
			poll()
		}
	}
}
