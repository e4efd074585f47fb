package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matvei-khlestov/vemora-sync/pkg/mylogger"
	"github.com/matvei-khlestov/vemora-sync/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// HTTPSource serves the one-shot fetch half of the catalog boundary. All
// calls run through a circuit breaker so a dead remote fails fast instead of
// piling up timeouts.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewHTTPSource(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: utils.NewFetchBreaker("catalog-fetch"),
		logger:  logger,
	}
}

func (s *HTTPSource) FetchProducts(ctx context.Context) ([]ProductRecord, error) {
	return fetchCollection[ProductRecord](ctx, s, "/catalog/products")
}

func (s *HTTPSource) FetchCategories(ctx context.Context) ([]CategoryRecord, error) {
	return fetchCollection[CategoryRecord](ctx, s, "/catalog/categories")
}

func (s *HTTPSource) FetchBrands(ctx context.Context) ([]BrandRecord, error) {
	return fetchCollection[BrandRecord](ctx, s, "/catalog/brands")
}

func fetchCollection[T any](ctx context.Context, s *HTTPSource, endpoint string) ([]T, error) {
	return utils.ExecuteWithBreaker(s.breaker, func() ([]T, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			mylogger.Warn(ctx, s.logger, "Catalog fetch failed",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)

			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: status %d", ErrPermission, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
		}

		var records []T
		if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}

		return records, nil
	})
}
