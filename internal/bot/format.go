package bot

import (
	"fmt"
	"strings"

	"github.com/brauni/hydrarr/internal/arr"
	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/services"
)

const (
	maxLibraryLines = 20
	demoMarker      = "🧪 Demo data (no service configured)"
)

func formatHelp() string {
	return `🤖 *Hydrarr*

Your media stack at a glance.

*Commands:*
/start or /help - Show this help message
/status - Health of every enabled service
/queue - Active downloads
/disk - Disk space
/library <radarr|sonarr|lidarr|readarr> - Library contents
/library radarr missing dune - Filter by all, missing, upcoming or downloaded, then by title
/test <name or id> - Test the connection to a service
/services - Configured services

Without configured services, sample data is shown.`
}

func formatStatus(health []media.ServiceHealth) string {
	if len(health) == 0 {
		return "📭 No enabled services configured.\n\n💡 Add services to the services file and use /status again."
	}

	var sb strings.Builder
	sb.WriteString("📊 Service status\n")
	for _, h := range health {
		icon := "🔴"
		switch h.Status {
		case media.HealthOnline:
			icon = "🟢"
		case media.HealthWarning:
			icon = "🟡"
		}
		fmt.Fprintf(&sb, "\n%s %s (%s)\n   Version: %s", icon, h.Name, h.Type, h.Version)
		if h.Port > 0 {
			fmt.Fprintf(&sb, " • Port %d", h.Port)
		}
	}
	return sb.String()
}

func formatQueue(queue []media.QueueEntry, demo bool) string {
	var sb strings.Builder
	sb.WriteString("📥 Download queue\n")
	if demo {
		sb.WriteString(demoMarker + "\n")
	}

	if len(queue) == 0 {
		sb.WriteString("\nNothing is downloading right now.")
		return sb.String()
	}

	for _, q := range queue {
		fmt.Fprintf(&sb, "\n%s %s\n   %s • %s • %.0f%% • %s left",
			statusIcon(q.Status), q.Title, q.Client, q.Speed, q.Progress, q.TimeLeft)
		if q.Size != "" {
			fmt.Fprintf(&sb, " • %s", q.Size)
		}
	}
	return sb.String()
}

func statusIcon(status media.QueueStatus) string {
	switch status {
	case media.QueueDownloading:
		return "⬇️"
	case media.QueuePaused:
		return "⏸"
	default:
		return "🕒"
	}
}

func formatDisk(stats []media.DiskStat, demo bool) string {
	var sb strings.Builder
	sb.WriteString("💾 Disk space\n")
	if demo {
		sb.WriteString(demoMarker + "\n")
	}

	if len(stats) == 0 {
		sb.WriteString("\nNo disks reported.")
		return sb.String()
	}

	for _, d := range stats {
		fmt.Fprintf(&sb, "\n%s\n   %d GB free of %d GB (%.0f%% used)", d.Label, d.Free, d.Total, d.UsedPercent())
	}
	return sb.String()
}

func formatLibrary(kind services.Kind, items []media.Item, demo bool, filter libraryFilter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s library (%d)\n", kind, len(items))
	if demo {
		sb.WriteString(demoMarker + "\n")
	}
	if filter.Active() {
		fmt.Fprintf(&sb, "🔎 Filter: %s\n", filter)
	}

	if len(items) == 0 {
		if filter.Active() {
			sb.WriteString("\nNo items match the filter.")
		} else {
			sb.WriteString("\nThe library is empty.")
		}
		return sb.String()
	}

	for i, item := range items {
		if i >= maxLibraryLines {
			fmt.Fprintf(&sb, "\n…and %d more", len(items)-maxLibraryLines)
			break
		}
		fmt.Fprintf(&sb, "\n• %s", item.Title)
		if item.Year > 0 {
			fmt.Fprintf(&sb, " (%d)", item.Year)
		}
		if by := byline(item); by != "" {
			fmt.Fprintf(&sb, " by %s", by)
		}
		fmt.Fprintf(&sb, " [%s]", item.Status)
		if item.Rating > 0 {
			fmt.Fprintf(&sb, " ⭐ %.1f", item.Rating)
		}
	}
	return sb.String()
}

func byline(item media.Item) string {
	if item.Artist != "" {
		return item.Artist
	}
	return item.Author
}

func formatServices(endpoints []services.Endpoint) string {
	if len(endpoints) == 0 {
		return "📭 No services configured."
	}

	var sb strings.Builder
	sb.WriteString("🧩 Configured services\n")
	for _, e := range endpoints {
		state := "enabled"
		if !e.Enabled {
			state = "disabled"
		}
		auth := "no auth"
		switch {
		case strings.TrimSpace(e.APIKey) != "":
			auth = "API key"
		case e.Username != "" && e.Password != "":
			auth = "basic auth"
		}
		url := e.URL
		if strings.TrimSpace(url) == "" {
			url = "(no URL)"
		}
		fmt.Fprintf(&sb, "\n• %s (%s) %s\n   %s • %s • id %s", e.Name, e.Type, state, url, auth, e.ID)
	}
	return sb.String()
}

func formatTestResult(endpoint services.Endpoint, result arr.Result) string {
	if result.Success {
		return fmt.Sprintf("✅ %s: %s", endpoint.Name, result.Message)
	}
	return fmt.Sprintf("❌ %s: connection failed\n\n%s", endpoint.Name, result.Message)
}

// formatError renders a classified failure with an actionable hint
func formatError(operation string, err error) string {
	msg := fmt.Sprintf("❌ Failed to load %s.\n\n%s", operation, err.Error())

	kind, ok := arr.KindOf(err)
	if !ok {
		return msg + "\n\nTap Retry to try again."
	}

	switch kind {
	case arr.ErrInsecureMixedContent:
		msg += "\n\n💡 Serve Hydrarr over HTTP or put the service behind HTTPS."
	case arr.ErrNetworkOrCors:
		msg += "\n\n💡 Check the URL and that CORS allows requests from Hydrarr."
	case arr.ErrAuthRejected:
		msg += "\n\n💡 Copy the API key again from the service settings."
	case arr.ErrCircuitOpen:
		msg += "\n\n💡 The service failed repeatedly and is paused for a short while."
	}
	return msg + fmt.Sprintf("\n\nReason: %s. Tap Retry to try again.", kind)
}
