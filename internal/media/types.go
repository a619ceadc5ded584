package media

import (
	"time"

	"github.com/brauni/hydrarr/internal/services"
)

// Type is the media family of an item
type Type string

const (
	TypeMovie  Type = "movie"
	TypeSeries Type = "series"
	TypeMusic  Type = "music"
	TypeBook   Type = "book"
)

// TypeForKind returns the media family a library manager serves
func TypeForKind(kind services.Kind) (Type, bool) {
	switch kind {
	case services.KindRadarr:
		return TypeMovie, true
	case services.KindSonarr:
		return TypeSeries, true
	case services.KindLidarr:
		return TypeMusic, true
	case services.KindReadarr:
		return TypeBook, true
	default:
		return "", false
	}
}

// Status is the library state of an item
type Status string

const (
	StatusDownloaded  Status = "Downloaded"
	StatusMissing     Status = "Missing"
	StatusMonitoring  Status = "Monitored"
	StatusDownloading Status = "Downloading"
	StatusUnmonitored Status = "Unmonitored"
	StatusEnded       Status = "Ended"
	StatusContinuing  Status = "Continuing"
)

// Item is a provider-agnostic library entry
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	PosterURL   string    `json:"posterUrl"`
	Rating      float64   `json:"rating"`
	Quality     string    `json:"quality,omitempty"`
	Size        string    `json:"size,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	Progress    int       `json:"progress,omitempty"`
	AddedDate   time.Time `json:"addedDate,omitempty"`
	SeasonCount int       `json:"seasonCount,omitempty"`
	Network     string    `json:"network,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	Author      string    `json:"author,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
}

// DownloadClient names the downloader handling a queue entry
type DownloadClient string

const (
	ClientSABnzbd     DownloadClient = "SABnzbd"
	ClientQBittorrent DownloadClient = "qBittorrent"
)

// QueueStatus is the state of a queue entry
type QueueStatus string

const (
	QueueDownloading QueueStatus = "Downloading"
	QueuePaused      QueueStatus = "Paused"
	QueueQueued      QueueStatus = "Queued"
)

// QueueEntry is one active or pending download
type QueueEntry struct {
	ID       int64          `json:"id"`
	Title    string         `json:"title"`
	Client   DownloadClient `json:"client"`
	Speed    string         `json:"speed"`
	TimeLeft string         `json:"timeLeft"`
	Progress float64        `json:"progress"`
	Status   QueueStatus    `json:"status"`
	Size     string         `json:"size,omitempty"`
	Type     Type           `json:"type"`
}

// DiskStat describes one storage path, sizes in GB
type DiskStat struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Free  int64  `json:"free"`
	Total int64  `json:"total"`
}

// UsedPercent returns the share of the disk in use, 0-100
func (d DiskStat) UsedPercent() float64 {
	if d.Total <= 0 {
		return 0
	}
	return float64(d.Total-d.Free) / float64(d.Total) * 100
}

// HealthStatus is the reachability of a service
type HealthStatus string

const (
	HealthOnline  HealthStatus = "Online"
	HealthOffline HealthStatus = "Offline"
	HealthWarning HealthStatus = "Warning"
)

// ServiceHealth is one configured service's health record
type ServiceHealth struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Version string        `json:"version"`
	Uptime  string        `json:"uptime"`
	Port    int           `json:"port"`
	Type    services.Kind `json:"type"`
}
