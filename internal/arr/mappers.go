package arr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/services"
)

const bytesPerGB = 1 << 30

// ErrMissingID is returned by mappers for records without an identifier
var ErrMissingID = errors.New("record has no id")

// MapMovie converts a Radarr movie
func MapMovie(m MovieResource) (media.Item, error) {
	if m.ID == nil {
		return media.Item{}, fmt.Errorf("radarr movie %q: %w", m.Title, ErrMissingID)
	}

	status := media.StatusUnmonitored
	switch {
	case m.HasFile:
		status = media.StatusDownloaded
	case m.Monitored:
		status = media.StatusMissing
	}

	var rating float64
	if m.Ratings != nil && m.Ratings.Tmdb != nil {
		rating = m.Ratings.Tmdb.Value
	}

	var quality string
	if m.MovieFile != nil && m.MovieFile.Quality != nil {
		quality = m.MovieFile.Quality.Quality.Name
	}

	return media.Item{
		ID:        *m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Type:      media.TypeMovie,
		Status:    status,
		PosterURL: posterURL(m.Images),
		Rating:    rating,
		AddedDate: parseTime(m.Added),
		Quality:   quality,
		Size:      formatGB(m.SizeOnDisk),
		Overview:  m.Overview,
		Genres:    m.Genres,
	}, nil
}

// MapSeries converts a Sonarr series
func MapSeries(s SeriesResource) (media.Item, error) {
	if s.ID == nil {
		return media.Item{}, fmt.Errorf("sonarr series %q: %w", s.Title, ErrMissingID)
	}

	status := media.StatusContinuing
	if s.Statistics != nil && s.Statistics.PercentOfEpisodes == 100 {
		status = media.StatusEnded
	}

	var rating float64
	if s.Ratings != nil {
		rating = s.Ratings.Value
	}

	return media.Item{
		ID:          *s.ID,
		Title:       s.Title,
		Year:        s.Year,
		Type:        media.TypeSeries,
		Status:      status,
		PosterURL:   posterURL(s.Images),
		Rating:      rating,
		SeasonCount: s.SeasonCount,
		Network:     s.Network,
		Overview:    s.Overview,
		AddedDate:   parseTime(s.Added),
		Genres:      s.Genres,
	}, nil
}

// MapAlbum converts a Lidarr album
func MapAlbum(a AlbumResource) (media.Item, error) {
	if a.ID == nil {
		return media.Item{}, fmt.Errorf("lidarr album %q: %w", a.Title, ErrMissingID)
	}

	status := media.StatusUnmonitored
	switch {
	case a.Statistics != nil && a.Statistics.PercentOfTracks == 100:
		status = media.StatusDownloaded
	case a.Monitored:
		status = media.StatusMissing
	}

	var rating float64
	if a.Ratings != nil {
		rating = a.Ratings.Value
	}

	var artist string
	if a.Artist != nil {
		artist = a.Artist.ArtistName
	}

	var size int64
	if a.Statistics != nil {
		size = a.Statistics.SizeOnDisk
	}

	return media.Item{
		ID:        *a.ID,
		Title:     a.Title,
		Year:      yearOf(a.ReleaseDate),
		Type:      media.TypeMusic,
		Status:    status,
		PosterURL: coverURL(a.Images),
		Rating:    rating,
		Artist:    artist,
		Size:      formatGB(size),
		Overview:  a.Overview,
		Genres:    a.Genres,
	}, nil
}

// MapBook converts a Readarr book
func MapBook(b BookResource) (media.Item, error) {
	if b.ID == nil {
		return media.Item{}, fmt.Errorf("readarr book %q: %w", b.Title, ErrMissingID)
	}

	status := media.StatusUnmonitored
	switch {
	case b.Statistics != nil && b.Statistics.BookFileCount > 0:
		status = media.StatusDownloaded
	case b.Monitored:
		status = media.StatusMissing
	}

	var rating float64
	if b.Ratings != nil {
		rating = b.Ratings.Value
	}

	var author string
	if b.Author != nil {
		author = b.Author.AuthorName
	}

	var size int64
	if b.Statistics != nil {
		size = b.Statistics.SizeOnDisk
	}

	return media.Item{
		ID:        *b.ID,
		Title:     b.Title,
		Year:      yearOf(b.ReleaseDate),
		Type:      media.TypeBook,
		Status:    status,
		PosterURL: coverURL(b.Images),
		Rating:    rating,
		Author:    author,
		Size:      formatGB(size),
		Overview:  b.Overview,
		Genres:    b.Genres,
	}, nil
}

// MapQueueRecord converts a queue record reported by the given library kind
func MapQueueRecord(q QueueRecord, kind services.Kind) (media.QueueEntry, error) {
	if q.ID == nil {
		return media.QueueEntry{}, fmt.Errorf("%s queue record %q: %w", kind, q.Title, ErrMissingID)
	}

	client := media.ClientSABnzbd
	if q.Protocol == "torrent" {
		client = media.ClientQBittorrent
	}

	timeLeft := q.Timeleft
	if timeLeft == "" {
		timeLeft = "?"
	}

	var progress float64
	if q.Size > 0 {
		progress = 100 - (q.Sizeleft / q.Size * 100)
	}

	status := media.QueueQueued
	if q.Status == "Downloading" || q.Status == "downloading" {
		status = media.QueueDownloading
	}

	t, ok := media.TypeForKind(kind)
	if !ok {
		t = media.TypeMovie
	}

	// Upstream queue records carry no transfer rate
	return media.QueueEntry{
		ID:       *q.ID,
		Title:    q.Title,
		Client:   client,
		Speed:    fmt.Sprintf("%.1f MB/s", 0.0),
		TimeLeft: timeLeft,
		Progress: progress,
		Status:   status,
		Size:     fmt.Sprintf("%.1f GB", q.Size/bytesPerGB),
		Type:     t,
	}, nil
}

// MapDiskSpace converts a disk space entry
func MapDiskSpace(d DiskSpaceResource) media.DiskStat {
	label := d.Label
	if label == "" {
		label = d.Path
	}
	return media.DiskStat{
		Path:  d.Path,
		Label: label,
		Free:  roundGB(d.FreeSpace),
		Total: roundGB(d.TotalSpace),
	}
}

// MapHealth builds the health record of an endpoint. A nil status means the
// probe failed.
func MapHealth(e services.Endpoint, status *SystemStatus) media.ServiceHealth {
	h := media.ServiceHealth{
		ID:   e.ID,
		Name: e.Name,
		Port: PortOf(e.URL),
		Type: e.Type,
	}

	if status == nil {
		h.Status = media.HealthOffline
		h.Version = "-"
		h.Uptime = "-"
		return h
	}

	h.Status = media.HealthOnline
	h.Version = status.Version
	if h.Version == "" {
		h.Version = "?.?.?"
	}
	h.Uptime = "Online"
	return h
}

// PortOf returns the leading digits after the last ':' of rawURL, or 0
func PortOf(rawURL string) int {
	idx := strings.LastIndex(rawURL, ":")
	if idx < 0 {
		return 0
	}
	rest := rawURL[idx+1:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	port, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return port
}

func posterURL(images []Image) string {
	for _, img := range images {
		if img.CoverType == "poster" {
			return img.RemoteURL
		}
	}
	return ""
}

// coverURL prefers a poster and falls back to the album or book cover art
func coverURL(images []Image) string {
	if u := posterURL(images); u != "" {
		return u
	}
	for _, img := range images {
		if img.CoverType == "cover" {
			return img.RemoteURL
		}
	}
	return ""
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func yearOf(date string) int {
	if t := parseTime(date); !t.IsZero() {
		return t.Year()
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

func formatGB(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/bytesPerGB)
}

func roundGB(bytes float64) int64 {
	return int64(math.Floor(bytes/bytesPerGB + 0.5))
}
