// Package samples holds the built-in demo data served when no service is
// configured for a capability.
package samples

import (
	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/services"
)

var library = []media.Item{
	{
		ID: 1, Title: "Roofman", Year: 2025, Type: media.TypeMovie, Status: media.StatusDownloading,
		PosterURL: "https://image.tmdb.org/t/p/original/9mJ9dxp682Z79E2b2r9g6x8.jpg",
		Rating:    7.2, Quality: "WEBDL-2160p", Size: "14.2 GB", Progress: 45,
	},
	{
		ID: 2, Title: "Now You See Me 3", Year: 2025, Type: media.TypeMovie, Status: media.StatusMissing,
		PosterURL: "https://image.tmdb.org/t/p/original/2wR7fH6c9z6d8.jpg",
		Rating:    8.4, Quality: "Bluray-1080p",
	},
	{
		ID: 3, Title: "Mickey 17", Year: 2025, Type: media.TypeMovie, Status: media.StatusDownloaded,
		PosterURL: "https://image.tmdb.org/t/p/w500/5y8.jpg",
		Rating:    6.9, Quality: "Bluray-2160p", Size: "45.1 GB",
	},
	{
		ID: 4, Title: "Severance", Year: 2022, Type: media.TypeSeries, Status: media.StatusContinuing,
		PosterURL: "https://image.tmdb.org/t/p/w500/p7f.jpg",
		Rating:    8.8, SeasonCount: 2,
	},
	{
		ID: 5, Title: "The Last of Us", Year: 2023, Type: media.TypeSeries, Status: media.StatusEnded,
		PosterURL: "https://image.tmdb.org/t/p/w500/u3bZgnGQ9T6.jpg",
		Rating:    9.2, SeasonCount: 1,
	},
	{
		ID: 10, Title: "Random Access Memories", Artist: "Daft Punk", Year: 2013, Type: media.TypeMusic,
		Status:    media.StatusDownloaded,
		PosterURL: "https://upload.wikimedia.org/wikipedia/en/a/a7/Random_Access_Memories.jpg",
		Rating:    9.0, Quality: "FLAC",
	},
	{
		ID: 11, Title: "After Hours", Artist: "The Weeknd", Year: 2020, Type: media.TypeMusic,
		Status:    media.StatusMissing,
		PosterURL: "https://upload.wikimedia.org/wikipedia/en/c/c1/The_Weeknd_-_After_Hours.png",
		Rating:    8.5,
	},
	{
		ID: 20, Title: "Project Hail Mary", Author: "Andy Weir", Year: 2021, Type: media.TypeBook,
		Status:    media.StatusDownloaded,
		PosterURL: "https://upload.wikimedia.org/wikipedia/en/4/40/Project_Hail_Mary_cover.jpg",
		Rating:    4.8,
	},
}

var queue = []media.QueueEntry{
	{
		ID: 1, Title: "Roofman (2025) 2160p HDR", Client: media.ClientSABnzbd, Speed: "45 MB/s",
		TimeLeft: "12m", Progress: 45, Status: media.QueueDownloading, Size: "14.2 GB", Type: media.TypeMovie,
	},
	{
		ID: 2, Title: "Severance S02E04 2160p", Client: media.ClientQBittorrent, Speed: "12 MB/s",
		TimeLeft: "5m", Progress: 78, Status: media.QueueDownloading, Size: "4.1 GB", Type: media.TypeSeries,
	},
}

var disks = []media.DiskStat{
	{Path: "/movies", Free: 4500, Total: 12000, Label: "Movies"},
	{Path: "/tv", Free: 2100, Total: 8000, Label: "TV Shows"},
}

// Library returns the sample items served by a library manager kind.
// Kinds without a library return an empty slice.
func Library(kind services.Kind) []media.Item {
	t, ok := media.TypeForKind(kind)
	if !ok {
		return []media.Item{}
	}

	out := make([]media.Item, 0, len(library))
	for _, item := range library {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// Queue returns a fresh copy of the sample download queue
func Queue() []media.QueueEntry {
	out := make([]media.QueueEntry, len(queue))
	copy(out, queue)
	return out
}

// DiskSpace returns a fresh copy of the sample disk statistics
func DiskSpace() []media.DiskStat {
	out := make([]media.DiskStat, len(disks))
	copy(out, disks)
	return out
}
