package arr

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/metrics"
	"github.com/brauni/hydrarr/internal/samples"
	"github.com/brauni/hydrarr/internal/services"
)

// API is the dashboard facade over the configured services
type API struct {
	client   *Client
	provider services.Provider
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// Result is the outcome of a connection test
type Result struct {
	Success bool
	Message string
}

// NewAPI creates a new facade. The provider is consulted on every call.
func NewAPI(client *Client, provider services.Provider, m *metrics.Metrics, logger *zap.Logger) *API {
	return &API{
		client:   client,
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// resolve returns the usable endpoint for kind or an ErrConfigMissing error
func (a *API) resolve(kind services.Kind) (services.Endpoint, error) {
	endpoint, ok := a.provider.Lookup(kind)
	if !ok || !endpoint.Usable() {
		return services.Endpoint{}, newConfigMissingError(string(kind))
	}
	return endpoint, nil
}

// resolveLibraries resolves every library manager in LibraryKinds order
// and skips the unconfigured ones
func (a *API) resolveLibraries() []services.Endpoint {
	var endpoints []services.Endpoint
	for _, kind := range services.LibraryKinds {
		endpoint, err := a.resolve(kind)
		if err != nil {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints
}

// Configured reports whether kind has a usable endpoint
func (a *API) Configured(kind services.Kind) bool {
	_, err := a.resolve(kind)
	return err == nil
}

// LibrariesConfigured reports whether any library manager is configured.
// Queue and disk data are samples otherwise.
func (a *API) LibrariesConfigured() bool {
	return len(a.resolveLibraries()) > 0
}

// StatusPath returns the status probe path for kind
func StatusPath(kind services.Kind) string {
	return apiVersion(kind) + "/system/status"
}

func apiVersion(kind services.Kind) string {
	switch kind {
	case services.KindLidarr, services.KindReadarr:
		return "api/v1"
	default:
		return "api/v3"
	}
}

// TestConnection probes endpoint's status path. It never fails; the
// diagnostic is carried in the result.
func (a *API) TestConnection(ctx context.Context, endpoint services.Endpoint) Result {
	if _, err := a.client.Fetch(ctx, endpoint, StatusPath(endpoint.Type)); err != nil {
		a.logger.Warn("Connection test failed",
			zap.String("service", endpoint.Name),
			zap.Error(err))
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: "Connection successful"}
}

// GetLibrary returns the library of kind. Without a usable configuration
// the sample library is returned; once configured, failures propagate.
func (a *API) GetLibrary(ctx context.Context, kind services.Kind) ([]media.Item, error) {
	endpoint, err := a.resolve(kind)
	if err != nil {
		if IsKind(err, ErrConfigMissing) {
			a.metrics.ObserveFallback("library")
			return samples.Library(kind), nil
		}
		return nil, err
	}

	switch kind {
	case services.KindRadarr:
		return fetchLibrary(ctx, a, endpoint, "api/v3/movie", MapMovie)
	case services.KindSonarr:
		return fetchLibrary(ctx, a, endpoint, "api/v3/series", MapSeries)
	case services.KindLidarr:
		return fetchLibrary(ctx, a, endpoint, "api/v1/album", MapAlbum)
	case services.KindReadarr:
		return fetchLibrary(ctx, a, endpoint, "api/v1/book", MapBook)
	default:
		return []media.Item{}, nil
	}
}

func fetchLibrary[T any](ctx context.Context, a *API, endpoint services.Endpoint, path string, mapper func(T) (media.Item, error)) ([]media.Item, error) {
	body, err := a.client.Fetch(ctx, endpoint, path)
	if err != nil {
		return nil, err
	}

	records, err := decodeArray[T](body)
	if err != nil {
		return nil, withProvider(err, endpoint)
	}

	items := make([]media.Item, 0, len(records))
	for _, record := range records {
		item, err := mapper(record)
		if err != nil {
			a.logger.Warn("Skipping library record", zap.String("service", endpoint.Name), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetQueue merges the download queues of every configured library manager.
// Providers are queried concurrently and a failing provider contributes
// nothing. Without any configuration the sample queue is returned.
func (a *API) GetQueue(ctx context.Context) ([]media.QueueEntry, error) {
	endpoints := a.resolveLibraries()
	if len(endpoints) == 0 {
		a.metrics.ObserveFallback("queue")
		return samples.Queue(), nil
	}

	results := make([][]media.QueueEntry, len(endpoints))

	// Goroutines never return errors so one provider cannot cancel another
	var g errgroup.Group
	for i, endpoint := range endpoints {
		g.Go(func() error {
			entries, err := a.fetchQueue(ctx, endpoint)
			if err != nil {
				a.metrics.ObserveProviderFailure("queue", string(endpoint.Type))
				a.logger.Warn("Ignoring queue provider failure",
					zap.String("service", endpoint.Name),
					zap.Error(err))
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	queue := []media.QueueEntry{}
	for _, entries := range results {
		queue = append(queue, entries...)
	}
	return queue, nil
}

func (a *API) fetchQueue(ctx context.Context, endpoint services.Endpoint) ([]media.QueueEntry, error) {
	body, err := a.client.Fetch(ctx, endpoint, apiVersion(endpoint.Type)+"/queue")
	if err != nil {
		return nil, err
	}

	records, err := decodeQueue(body)
	if err != nil {
		return nil, withProvider(err, endpoint)
	}

	entries := make([]media.QueueEntry, 0, len(records))
	for _, record := range records {
		entry, err := MapQueueRecord(record, endpoint.Type)
		if err != nil {
			a.logger.Warn("Skipping queue record", zap.String("service", endpoint.Name), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetDiskSpace returns the disk stats of the first library manager that
// answers with a list. Providers are tried in order; when all of them fail
// an ErrAggregateFailure error carries each cause.
func (a *API) GetDiskSpace(ctx context.Context) ([]media.DiskStat, error) {
	endpoints := a.resolveLibraries()
	if len(endpoints) == 0 {
		a.metrics.ObserveFallback("disk")
		return samples.DiskSpace(), nil
	}

	var causes []error
	for _, endpoint := range endpoints {
		stats, err := a.fetchDiskSpace(ctx, endpoint)
		if err != nil {
			a.metrics.ObserveProviderFailure("disk", string(endpoint.Type))
			causes = append(causes, err)
			continue
		}
		return stats, nil
	}
	return nil, newAggregateError("disk space", causes)
}

func (a *API) fetchDiskSpace(ctx context.Context, endpoint services.Endpoint) ([]media.DiskStat, error) {
	body, err := a.client.Fetch(ctx, endpoint, apiVersion(endpoint.Type)+"/diskspace")
	if err != nil {
		return nil, err
	}

	if !isArray(body) {
		return nil, withProvider(newDecodeError(errors.New("disk space payload is not a list")), endpoint)
	}

	records, err := decodeArray[DiskSpaceResource](body)
	if err != nil {
		return nil, withProvider(err, endpoint)
	}

	stats := make([]media.DiskStat, 0, len(records))
	for _, record := range records {
		stats = append(stats, MapDiskSpace(record))
	}
	return stats, nil
}

// GetServicesStatus probes every enabled endpoint concurrently. It never
// fails; unreachable services are reported Offline. Without any enabled
// endpoint the result is empty.
func (a *API) GetServicesStatus(ctx context.Context) []media.ServiceHealth {
	endpoints, err := a.provider.Enabled()
	if err != nil {
		a.logger.Warn("Failed to read service configuration", zap.Error(err))
		return []media.ServiceHealth{}
	}

	health := make([]media.ServiceHealth, len(endpoints))

	var g errgroup.Group
	for i, endpoint := range endpoints {
		g.Go(func() error {
			health[i] = MapHealth(endpoint, a.probeStatus(ctx, endpoint))
			return nil
		})
	}
	_ = g.Wait()

	return health
}

func (a *API) probeStatus(ctx context.Context, endpoint services.Endpoint) *SystemStatus {
	body, err := a.client.Fetch(ctx, endpoint, StatusPath(endpoint.Type))
	if err != nil {
		return nil
	}

	var status SystemStatus
	if err := json.Unmarshal(body, &status); err != nil {
		// Reachable but unexpected payload still counts as online
		a.logger.Debug("Unreadable status payload", zap.String("service", endpoint.Name), zap.Error(err))
	}
	return &status
}

func isArray(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == '['
}

// decodeArray decodes a JSON list. Any other payload yields an empty list.
func decodeArray[T any](body []byte) ([]T, error) {
	if !isArray(body) {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, newDecodeError(fmt.Errorf("failed to decode list: %w", err))
	}
	return records, nil
}

// decodeQueue accepts both the paged wrapper and a bare list of records
func decodeQueue(body []byte) ([]QueueRecord, error) {
	if isArray(body) {
		return decodeArray[QueueRecord](body)
	}
	var page QueuePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, newDecodeError(fmt.Errorf("failed to decode queue: %w", err))
	}
	return page.Records, nil
}
