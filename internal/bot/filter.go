package bot

import (
	"strings"

	"github.com/brauni/hydrarr/internal/media"
)

// libraryTabs maps a /library tab argument to the status it keeps.
// "all" keeps every item.
var libraryTabs = map[string]media.Status{
	"all":        "",
	"missing":    media.StatusMissing,
	"upcoming":   media.StatusMonitoring,
	"downloaded": media.StatusDownloaded,
}

// libraryFilter narrows a library listing by status tab and title search
type libraryFilter struct {
	Tab   string
	Query string
}

// parseLibraryFilter reads the optional tab and search words following the
// library type. A leading word that names a tab selects it; the rest is the
// search query.
func parseLibraryFilter(args []string) libraryFilter {
	var f libraryFilter
	if len(args) > 0 {
		if _, ok := libraryTabs[strings.ToLower(args[0])]; ok {
			f.Tab = strings.ToLower(args[0])
			args = args[1:]
		}
	}
	f.Query = strings.Join(args, " ")
	return f
}

// Active reports whether the filter would drop anything
func (f libraryFilter) Active() bool {
	return (f.Tab != "" && f.Tab != "all") || f.Query != ""
}

// Apply returns the items kept by the filter, in their original order
func (f libraryFilter) Apply(items []media.Item) []media.Item {
	if !f.Active() {
		return items
	}

	status := libraryTabs[f.Tab]
	query := strings.ToLower(f.Query)

	kept := make([]media.Item, 0, len(items))
	for _, item := range items {
		if status != "" && item.Status != status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Title), query) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// String renders the filter as command arguments
func (f libraryFilter) String() string {
	var parts []string
	if f.Tab != "" {
		parts = append(parts, f.Tab)
	}
	if f.Query != "" {
		parts = append(parts, f.Query)
	}
	return strings.Join(parts, " ")
}
