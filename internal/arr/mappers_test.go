package arr

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/services"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return v
}

func TestMapMovieDefaults(t *testing.T) {
	item, err := MapMovie(decode[MovieResource](t, `{"id": 3, "title": "Heat", "year": 1995, "ratings": {"imdb": {"value": 8.3}}}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if item.Rating != 0 {
		t.Errorf("Expected rating 0 without tmdb value, got %v", item.Rating)
	}
	if item.PosterURL != "" {
		t.Errorf("Expected empty poster, got %q", item.PosterURL)
	}
	if item.Status != media.StatusUnmonitored || item.Size != "" || !item.AddedDate.IsZero() {
		t.Errorf("Unexpected defaults %+v", item)
	}
}

func TestMapMovieMissingID(t *testing.T) {
	_, err := MapMovie(MovieResource{Title: "Ghost"})
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("Expected ErrMissingID, got %v", err)
	}
}

func TestMapSeries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want media.Status
	}{
		{"complete", `{"id": 1, "statistics": {"percentOfEpisodes": 100}}`, media.StatusEnded},
		{"partial", `{"id": 1, "statistics": {"percentOfEpisodes": 42.5}}`, media.StatusContinuing},
		{"no statistics", `{"id": 1}`, media.StatusContinuing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := MapSeries(decode[SeriesResource](t, tt.raw))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if item.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, item.Status)
			}
		})
	}

	item, _ := MapSeries(decode[SeriesResource](t, `{"id": 2, "ratings": {"value": 8.8}, "seasonCount": 2, "network": "Apple TV+"}`))
	if item.Rating != 8.8 || item.SeasonCount != 2 || item.Network != "Apple TV+" || item.Type != media.TypeSeries {
		t.Errorf("Unexpected mapping %+v", item)
	}
}

func TestMapAlbum(t *testing.T) {
	item, err := MapAlbum(decode[AlbumResource](t, `{"id": 10, "title": "Discovery", "releaseDate": "2001-03-12T00:00:00Z",
		"artist": {"artistName": "Daft Punk"}, "statistics": {"percentOfTracks": 100},
		"images": [{"coverType": "cover", "remoteUrl": "cover.jpg"}]}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if item.Artist != "Daft Punk" || item.Year != 2001 || item.Status != media.StatusDownloaded || item.PosterURL != "cover.jpg" {
		t.Errorf("Unexpected mapping %+v", item)
	}

	item, _ = MapAlbum(decode[AlbumResource](t, `{"id": 11, "monitored": true, "statistics": {"percentOfTracks": 50}}`))
	if item.Status != media.StatusMissing || item.Artist != "" {
		t.Errorf("Unexpected mapping %+v", item)
	}
}

func TestMapBook(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want media.Status
	}{
		{"has file", `{"id": 1, "statistics": {"bookFileCount": 2}}`, media.StatusDownloaded},
		{"monitored", `{"id": 1, "monitored": true}`, media.StatusMissing},
		{"unmonitored", `{"id": 1}`, media.StatusUnmonitored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := MapBook(decode[BookResource](t, tt.raw))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if item.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, item.Status)
			}
		})
	}

	item, _ := MapBook(decode[BookResource](t, `{"id": 5, "releaseDate": "2021-05-04", "author": {"authorName": "Andy Weir"}}`))
	if item.Author != "Andy Weir" || item.Year != 2021 || item.Type != media.TypeBook {
		t.Errorf("Unexpected mapping %+v", item)
	}
}

func TestMapQueueRecordMissingID(t *testing.T) {
	_, err := MapQueueRecord(QueueRecord{Title: "x"}, services.KindRadarr)
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("Expected ErrMissingID, got %v", err)
	}
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"http://192.168.1.10:7878", 7878},
		{"http://radarr:7878/", 7878},
		{"https://sonarr.example.com", 0},
		{"sab.lan:8080/sabnzbd", 8080},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := PortOf(tt.url); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
