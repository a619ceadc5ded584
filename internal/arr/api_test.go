package arr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/metrics"
	"github.com/brauni/hydrarr/internal/samples"
	"github.com/brauni/hydrarr/internal/services"
)

func newTestAPI(t *testing.T, store services.Provider) (*API, *metrics.Metrics) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m := metrics.New(prometheus.NewRegistry())
	client := NewClient(Options{Metrics: m}, logger)
	return NewAPI(client, store, m, logger), m
}

func jsonServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func endpoint(kind services.Kind, url string) services.Endpoint {
	return services.Endpoint{Name: string(kind), Type: kind, URL: url, APIKey: "key", Enabled: true}
}

func TestGetLibraryDemoMode(t *testing.T) {
	api, m := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t)))

	for _, kind := range services.LibraryKinds {
		items, err := api.GetLibrary(context.Background(), kind)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", kind, err)
		}
		if len(items) != len(samples.Library(kind)) || len(items) == 0 {
			t.Errorf("%s: expected %d sample items, got %d", kind, len(samples.Library(kind)), len(items))
		}
		want, _ := media.TypeForKind(kind)
		for _, item := range items {
			if item.Type != want {
				t.Errorf("%s: expected type %s, got %s", kind, want, item.Type)
			}
		}
	}

	items, err := api.GetLibrary(context.Background(), services.KindPlex)
	if err != nil || len(items) != 0 {
		t.Errorf("Expected empty library for Plex, got %d items, err %v", len(items), err)
	}

	if got := testutil.ToFloat64(m.FallbackServed.WithLabelValues("library")); got != 5 {
		t.Errorf("Expected 5 library fallbacks, got %v", got)
	}
}

func TestGetLibraryDisabledEndpointNotQueried(t *testing.T) {
	var hits atomic.Int32
	srv := failingServer(t, &hits)

	disabled := endpoint(services.KindRadarr, srv.URL)
	disabled.Enabled = false
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t), disabled))

	items, err := api.GetLibrary(context.Background(), services.KindRadarr)
	if err != nil {
		t.Fatalf("Expected demo data, got %v", err)
	}
	if len(items) == 0 {
		t.Error("Expected sample movies")
	}
	if hits.Load() != 0 {
		t.Errorf("Expected disabled endpoint to be skipped, got %d calls", hits.Load())
	}
}

func TestGetLibraryRadarr(t *testing.T) {
	srv := jsonServer(t, map[string]string{
		"/api/v3/movie": `[
			{"id": 7, "title": "Dune", "year": 2021, "hasFile": true,
			 "images": [{"coverType": "fanart", "remoteUrl": "f.jpg"}, {"coverType": "poster", "remoteUrl": "p.jpg"}],
			 "ratings": {"tmdb": {"value": 7.8}}, "sizeOnDisk": 16106127360,
			 "movieFile": {"quality": {"quality": {"name": "Bluray-2160p"}}},
			 "added": "2024-01-02T03:04:05Z"},
			{"title": "No ID"},
			{"id": 8, "title": "Arrival", "monitored": true}
		]`,
	})

	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t), endpoint(services.KindRadarr, srv.URL)))

	items, err := api.GetLibrary(context.Background(), services.KindRadarr)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items (record without id skipped), got %d", len(items))
	}

	dune := items[0]
	if dune.Status != media.StatusDownloaded || dune.PosterURL != "p.jpg" || dune.Rating != 7.8 {
		t.Errorf("Unexpected mapping %+v", dune)
	}
	if dune.Size != "15.0 GB" || dune.Quality != "Bluray-2160p" {
		t.Errorf("Unexpected size/quality %q %q", dune.Size, dune.Quality)
	}
	if dune.AddedDate.Year() != 2024 {
		t.Errorf("Expected added date in 2024, got %v", dune.AddedDate)
	}

	if items[1].Status != media.StatusMissing || items[1].Rating != 0 || items[1].PosterURL != "" {
		t.Errorf("Unexpected defaults %+v", items[1])
	}
}

func TestGetLibraryNonArrayPayload(t *testing.T) {
	srv := jsonServer(t, map[string]string{"/api/v3/series": `{"message": "not a list"}`})
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t), endpoint(services.KindSonarr, srv.URL)))

	items, err := api.GetLibrary(context.Background(), services.KindSonarr)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty list, got %d", len(items))
	}
}

func TestGetLibraryFailurePropagates(t *testing.T) {
	srv := failingServer(t, nil)
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t), endpoint(services.KindRadarr, srv.URL)))

	_, err := api.GetLibrary(context.Background(), services.KindRadarr)
	if !IsKind(err, ErrHTTP) {
		t.Fatalf("Expected HTTPError, got %v", err)
	}
}

func TestGetLibraryPicksUpConfigEdits(t *testing.T) {
	srv := jsonServer(t, map[string]string{"/api/v1/book": `[{"id": 1, "title": "Dune", "author": {"authorName": "Frank Herbert"}, "statistics": {"bookFileCount": 1}}]`})

	store := services.NewMemoryStore(zaptest.NewLogger(t))
	api, _ := newTestAPI(t, store)

	before, err := api.GetLibrary(context.Background(), services.KindReadarr)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(before) != len(samples.Library(services.KindReadarr)) {
		t.Fatalf("Expected sample books before configuration")
	}

	store.Put(endpoint(services.KindReadarr, srv.URL))

	after, err := api.GetLibrary(context.Background(), services.KindReadarr)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(after) != 1 || after[0].Author != "Frank Herbert" || after[0].Status != media.StatusDownloaded {
		t.Errorf("Expected the configured library, got %+v", after)
	}
}

func TestGetQueueDemoMode(t *testing.T) {
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t)))

	queue, err := api.GetQueue(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(queue) != len(samples.Queue()) {
		t.Errorf("Expected sample queue, got %d entries", len(queue))
	}
}

func TestGetQueuePartialFailure(t *testing.T) {
	bad := failingServer(t, nil)
	good := jsonServer(t, map[string]string{"/api/v3/queue": `{"page": 1, "totalRecords": 2, "records": [
		{"id": 1, "title": "Severance S02E01", "protocol": "torrent", "size": 1073741824, "sizeleft": 268435456, "status": "Downloading", "timeleft": "00:10:00"},
		{"id": 2, "title": "Severance S02E02", "protocol": "usenet", "size": 0, "sizeleft": 0, "status": "queued"}
	]}`})

	api, m := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t),
		endpoint(services.KindRadarr, bad.URL),
		endpoint(services.KindSonarr, good.URL),
	))

	queue, err := api.GetQueue(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("Expected exactly 2 entries, got %d", len(queue))
	}

	first := queue[0]
	if first.Client != media.ClientQBittorrent || first.Progress != 75 || first.Status != media.QueueDownloading {
		t.Errorf("Unexpected first entry %+v", first)
	}
	if first.Speed != "0.0 MB/s" || first.Size != "1.0 GB" || first.Type != media.TypeSeries {
		t.Errorf("Unexpected first entry details %+v", first)
	}

	second := queue[1]
	if second.Client != media.ClientSABnzbd || second.Progress != 0 || second.TimeLeft != "?" || second.Status != media.QueueQueued {
		t.Errorf("Unexpected second entry %+v", second)
	}

	if got := testutil.ToFloat64(m.ProviderFailures.WithLabelValues("queue", "Radarr")); got != 1 {
		t.Errorf("Expected 1 queue provider failure, got %v", got)
	}
}

func TestGetQueueKeepsInitiationOrder(t *testing.T) {
	radarr := jsonServer(t, map[string]string{"/api/v3/queue": `{"records": [{"id": 1, "title": "movie"}]}`})
	lidarr := jsonServer(t, map[string]string{"/api/v1/queue": `{"records": [{"id": 2, "title": "album"}]}`})
	readarr := jsonServer(t, map[string]string{"/api/v1/queue": `[{"id": 3, "title": "book"}]`})

	// Store order differs from the fixed provider order
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t),
		endpoint(services.KindReadarr, readarr.URL),
		endpoint(services.KindLidarr, lidarr.URL),
		endpoint(services.KindRadarr, radarr.URL),
	))

	queue, err := api.GetQueue(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"movie", "album", "book"}
	if len(queue) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(queue))
	}
	for i, title := range want {
		if queue[i].Title != title {
			t.Errorf("Entry %d: expected %q, got %q", i, title, queue[i].Title)
		}
	}
	if queue[1].Type != media.TypeMusic || queue[2].Type != media.TypeBook {
		t.Errorf("Unexpected entry types %s %s", queue[1].Type, queue[2].Type)
	}
}

func TestGetQueueAllFailing(t *testing.T) {
	bad := failingServer(t, nil)
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t), endpoint(services.KindRadarr, bad.URL)))

	queue, err := api.GetQueue(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("Expected empty queue, got %d", len(queue))
	}
}

func TestGetDiskSpace(t *testing.T) {
	disks := `[{"path": "/data", "label": "", "freeSpace": 536870912000, "totalSpace": 2199023255552},
		{"path": "/media", "label": "Media", "freeSpace": 1610612736, "totalSpace": 3221225472}]`

	t.Run("third provider wins", func(t *testing.T) {
		var firstHits, secondHits atomic.Int32
		api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t),
			endpoint(services.KindRadarr, failingServer(t, &firstHits).URL),
			endpoint(services.KindSonarr, failingServer(t, &secondHits).URL),
			endpoint(services.KindLidarr, jsonServer(t, map[string]string{"/api/v1/diskspace": disks}).URL),
		))

		stats, err := api.GetDiskSpace(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(stats) != 2 {
			t.Fatalf("Expected 2 disks, got %d", len(stats))
		}
		if stats[0].Label != "/data" || stats[0].Free != 500 || stats[0].Total != 2048 {
			t.Errorf("Unexpected first disk %+v", stats[0])
		}
		if stats[1].Label != "Media" || stats[1].Free != 2 || stats[1].Total != 3 {
			t.Errorf("Unexpected second disk %+v", stats[1])
		}
		if firstHits.Load() != 1 || secondHits.Load() != 1 {
			t.Errorf("Expected each failing provider to be tried once, got %d and %d", firstHits.Load(), secondHits.Load())
		}
	})

	t.Run("first success short circuits", func(t *testing.T) {
		var laterHits atomic.Int32
		api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t),
			endpoint(services.KindRadarr, jsonServer(t, map[string]string{"/api/v3/diskspace": disks}).URL),
			endpoint(services.KindSonarr, failingServer(t, &laterHits).URL),
		))

		if _, err := api.GetDiskSpace(context.Background()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if laterHits.Load() != 0 {
			t.Errorf("Expected later providers to be skipped, got %d calls", laterHits.Load())
		}
	})

	t.Run("all failing", func(t *testing.T) {
		api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t),
			endpoint(services.KindRadarr, failingServer(t, nil).URL),
			endpoint(services.KindSonarr, failingServer(t, nil).URL),
			endpoint(services.KindLidarr, jsonServer(t, map[string]string{"/api/v1/diskspace": `{"oops": true}`}).URL),
		))

		_, err := api.GetDiskSpace(context.Background())
		if !IsKind(err, ErrAggregateFailure) {
			t.Fatalf("Expected AggregateFailure, got %v", err)
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) || len(apiErr.Causes) != 3 {
			t.Fatalf("Expected 3 causes, got %+v", apiErr)
		}
		if !IsKind(apiErr.Causes[0], ErrHTTP) || !IsKind(apiErr.Causes[2], ErrDecode) {
			t.Errorf("Unexpected causes %v", apiErr.Causes)
		}
	})

	t.Run("demo mode", func(t *testing.T) {
		api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t)))
		stats, err := api.GetDiskSpace(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(stats) != len(samples.DiskSpace()) {
			t.Errorf("Expected sample disks, got %d", len(stats))
		}
	})
}

func TestGetServicesStatus(t *testing.T) {
	radarr := jsonServer(t, map[string]string{"/api/v3/system/status": `{"appName": "Radarr", "version": "5.2.6"}`})
	lidarr := jsonServer(t, map[string]string{"/api/v1/system/status": `{}`})
	down := failingServer(t, nil)

	store := services.NewMemoryStore(zaptest.NewLogger(t),
		services.Endpoint{ID: "1", Name: "Radarr", Type: services.KindRadarr, URL: radarr.URL, Enabled: true},
		services.Endpoint{ID: "2", Name: "Sonarr", Type: services.KindSonarr, URL: down.URL, Enabled: true},
		services.Endpoint{ID: "3", Name: "Lidarr", Type: services.KindLidarr, URL: lidarr.URL, Enabled: true},
		services.Endpoint{ID: "4", Name: "Plex", Type: services.KindPlex, URL: "http://plex:32400", Enabled: false},
	)
	api, _ := newTestAPI(t, store)

	health := api.GetServicesStatus(context.Background())
	if len(health) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(health))
	}

	if health[0].ID != "1" || health[0].Status != media.HealthOnline || health[0].Version != "5.2.6" || health[0].Uptime != "Online" {
		t.Errorf("Unexpected Radarr record %+v", health[0])
	}
	if health[0].Port != PortOf(radarr.URL) || health[0].Port == 0 {
		t.Errorf("Expected port from URL, got %d", health[0].Port)
	}
	if health[1].Status != media.HealthOffline || health[1].Version != "-" || health[1].Uptime != "-" {
		t.Errorf("Unexpected Sonarr record %+v", health[1])
	}
	if health[2].Status != media.HealthOnline || health[2].Version != "?.?.?" {
		t.Errorf("Unexpected Lidarr record %+v", health[2])
	}
}

func TestGetServicesStatusEmpty(t *testing.T) {
	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t)))
	if health := api.GetServicesStatus(context.Background()); len(health) != 0 {
		t.Errorf("Expected no records, got %d", len(health))
	}
}

func TestTestConnection(t *testing.T) {
	ok := jsonServer(t, map[string]string{"/api/v1/system/status": `{"version": "1.0"}`})
	rejected := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer rejected.Close()

	api, _ := newTestAPI(t, services.NewMemoryStore(zaptest.NewLogger(t)))

	if res := api.TestConnection(context.Background(), endpoint(services.KindReadarr, ok.URL)); !res.Success {
		t.Errorf("Expected success, got %+v", res)
	}

	res := api.TestConnection(context.Background(), endpoint(services.KindRadarr, rejected.URL))
	if res.Success {
		t.Fatal("Expected failure")
	}
	if res.Message != "Radarr: Authentication rejected (401). Check the API key." {
		t.Errorf("Unexpected message %q", res.Message)
	}

	res = api.TestConnection(context.Background(), services.Endpoint{Name: "Empty", Type: services.KindSonarr})
	if res.Success || res.Message == "" {
		t.Errorf("Expected a diagnostic for a missing URL, got %+v", res)
	}
}
