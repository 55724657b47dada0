// Package clinicapi fetches raw visit/accounting record batches from the
// remote clinic API. Authentication is an OAuth2 client-credentials exchange;
// records are fetched page by page over an inclusive date range.
package clinicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/toptal0212/clinic-analysis-sub002/internal/common"
	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
	"github.com/toptal0212/clinic-analysis-sub002/internal/service"
)

// Config holds the connection settings for the clinic API.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	PageSize     int
	Timeout      time.Duration
}

// Validate checks that the required settings are present.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL", common.ErrMissingConfig)
	}
	if c.TokenURL == "" {
		return fmt.Errorf("%w: token URL", common.ErrMissingConfig)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: client credentials", common.ErrMissingConfig)
	}
	return nil
}

// Client implements the service.RecordSource interface for the clinic API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
}

// recordPage is one page of the paginated records response.
type recordPage struct {
	Records []map[string]any `json:"records"`
	HasMore bool             `json:"has_more"`
}

// NewClient creates a clinic API client. The returned client owns an HTTP
// client whose transport injects the bearer token obtained from the
// client-credentials exchange, refreshing it as it expires.
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ccConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
	}

	httpClient := ccConfig.Client(ctx)
	if config.Timeout > 0 {
		httpClient.Timeout = config.Timeout
	} else {
		httpClient.Timeout = 30 * time.Second
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    config.BaseURL,
		pageSize:   pageSize,
	}, nil
}

// FetchRecords retrieves every raw record in the inclusive date range,
// following pagination until the API reports no more pages. The pipeline
// consumes the result as a single completed batch.
func (c *Client) FetchRecords(ctx context.Context, rng service.DateRange) ([]model.RawRecord, error) {
	if rng.Start.After(rng.End) {
		return nil, common.ErrInvalidDateRange
	}

	var all []model.RawRecord
	for page := 1; ; page++ {
		batch, err := c.fetchPage(ctx, rng, page)
		if err != nil {
			return nil, err
		}

		for _, rec := range batch.Records {
			all = append(all, model.RawRecord(rec))
		}

		if !batch.HasMore || len(batch.Records) == 0 {
			break
		}
	}

	slog.Info("Fetched records from clinic API",
		"count", len(all),
		"start", rng.Start.Format("2006-01-02"),
		"end", rng.End.Format("2006-01-02"))

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, rng service.DateRange, page int) (*recordPage, error) {
	endpoint, err := url.Parse(c.baseURL + "/records")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	query := endpoint.Query()
	query.Set("start_date", rng.Start.Format("2006-01-02"))
	query.Set("end_date", rng.End.Format("2006-01-02"))
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(c.pageSize))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAPIConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: page %d", common.ErrAPIRateLimit, page)
	case resp.StatusCode >= 500:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("clinic api returned status %d for page %d", resp.StatusCode, page),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("clinic api returned status %d for page %d", resp.StatusCode, page)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result recordPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse records response: %w", err)
	}

	return &result, nil
}
