package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/version"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultAPIVersion is the search data-plane REST version.
const DefaultAPIVersion = "2024-07-01"

const moduleName = "searchdemo"

// Config holds connection parameters for an Azure AI Search service.
type Config struct {
	Endpoint   string // https://<service>.search.windows.net
	APIKey     string
	APIVersion string

	// Timeout bounds every single try; MaxAttempts counts the first try.
	Timeout       time.Duration
	MaxAttempts   int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	// Transport overrides the HTTP client (tests).
	Transport policy.Transporter
}

// Store implements db.Store over the Azure AI Search REST API through the
// azcore pipeline (api-key auth, retry with backoff, per-try timeout).
type Store struct {
	endpoint   string
	apiVersion string
	pl         runtime.Pipeline
}

// EndpointFor builds the public endpoint of a search service by name.
func EndpointFor(serviceName string) string {
	return fmt.Sprintf("https://%s.search.windows.net", serviceName)
}

// NewStore creates an Azure AI Search store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}

	retries := int32(cfg.MaxAttempts - 1) //nolint:gosec // small configured value
	if cfg.MaxAttempts <= 1 {
		retries = -1 // azcore: negative means a single try
	}

	opts := &policy.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries:    retries,
			TryTimeout:    cfg.Timeout,
			RetryDelay:    cfg.RetryDelay,
			MaxRetryDelay: cfg.MaxRetryDelay,
		},
		Telemetry: policy.TelemetryOptions{ApplicationID: moduleName},
	}
	if cfg.Transport != nil {
		opts.Transport = cfg.Transport
	}

	cred := azcore.NewKeyCredential(cfg.APIKey)
	pl := runtime.NewPipeline(moduleName, version.Version, runtime.PipelineOptions{
		PerRetry: []policy.Policy{runtime.NewKeyCredentialPolicy(cred, "api-key", nil)},
	}, opts)

	return &Store{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		apiVersion: cfg.APIVersion,
		pl:         pl,
	}, nil
}

// Ping checks connectivity and credentials via the service statistics endpoint.
func (s *Store) Ping(ctx context.Context) error {
	req, err := s.newRequest(ctx, http.MethodGet, nil, "servicestats")
	if err != nil {
		return err
	}
	resp, err := s.pl.Do(req)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer resp.Body.Close()
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return responseError(db.OpPing, resp)
	}
	return nil
}

// Close is a no-op: the pipeline holds no long-lived connections of its own.
func (s *Store) Close() {}

// WaitForReady polls Ping until the service responds or timeout expires.
// Rejected credentials end the wait immediately.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, db.ErrUnauthorized) {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search service: %w", errors.Join(ctx.Err(), lastErr))
		case <-ticker.C:
		}
	}
}

func (s *Store) newRequest(ctx context.Context, method string, body any, paths ...string) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(s.endpoint, paths...))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", s.apiVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	return req, nil
}

// responseError maps a non-success response to the db sentinel taxonomy.
func responseError(op string, resp *http.Response) error {
	raw := runtime.NewResponseError(resp)
	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = db.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = db.ErrIndexNotFound
	case http.StatusConflict:
		sentinel = db.ErrIndexExists
	case http.StatusTooManyRequests:
		sentinel = db.ErrThrottled
	case http.StatusRequestTimeout, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		sentinel = db.ErrUnavailable
	}
	if sentinel == nil {
		return &db.Error{Op: op, Err: raw}
	}
	return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", sentinel, raw)}
}
