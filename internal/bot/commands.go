package bot

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brauni/hydrarr/internal/arr"
	"github.com/brauni/hydrarr/internal/media"
	"github.com/brauni/hydrarr/internal/services"
)

// Dashboard is the data source behind the chat commands
type Dashboard interface {
	TestConnection(ctx context.Context, endpoint services.Endpoint) arr.Result
	GetLibrary(ctx context.Context, kind services.Kind) ([]media.Item, error)
	GetQueue(ctx context.Context) ([]media.QueueEntry, error)
	GetDiskSpace(ctx context.Context) ([]media.DiskStat, error)
	GetServicesStatus(ctx context.Context) []media.ServiceHealth
	Configured(kind services.Kind) bool
	LibrariesConfigured() bool
}

// Reply is the response to one command
type Reply struct {
	Text     string
	Markdown bool
	// Retry is the command to re-run from a retry button, if any
	Retry string
}

// Router turns command text into replies
type Router struct {
	dashboard Dashboard
	catalog   services.Catalog
	logger    *zap.Logger
}

// NewRouter creates a command router
func NewRouter(dashboard Dashboard, catalog services.Catalog, logger *zap.Logger) *Router {
	return &Router{
		dashboard: dashboard,
		catalog:   catalog,
		logger:    logger,
	}
}

// Handle runs the command in text
func (r *Router) Handle(ctx context.Context, text string) Reply {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Reply{Text: "👋 Use /help to see what I can do."}
	}

	// Commands may be addressed as /cmd@botname in groups
	command := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch command {
	case "/start", "/help":
		return Reply{Text: formatHelp(), Markdown: true}
	case "/status":
		return Reply{Text: formatStatus(r.dashboard.GetServicesStatus(ctx))}
	case "/queue":
		return r.queue(ctx)
	case "/disk":
		return r.disk(ctx)
	case "/library":
		return r.library(ctx, args)
	case "/test":
		return r.test(ctx, args)
	case "/services":
		return r.services()
	default:
		return Reply{Text: "❓ Unknown command. Use /help for the list of commands."}
	}
}

func (r *Router) queue(ctx context.Context) Reply {
	queue, err := r.dashboard.GetQueue(ctx)
	if err != nil {
		r.logger.Error("Failed to get queue", zap.Error(err))
		return Reply{Text: formatError("the download queue", err), Retry: "/queue"}
	}
	return Reply{Text: formatQueue(queue, !r.dashboard.LibrariesConfigured())}
}

func (r *Router) disk(ctx context.Context) Reply {
	stats, err := r.dashboard.GetDiskSpace(ctx)
	if err != nil {
		r.logger.Error("Failed to get disk space", zap.Error(err))
		return Reply{Text: formatError("disk space", err), Retry: "/disk"}
	}
	return Reply{Text: formatDisk(stats, !r.dashboard.LibrariesConfigured())}
}

func (r *Router) library(ctx context.Context, args []string) Reply {
	usage := Reply{Text: "Usage: /library <radarr|sonarr|lidarr|readarr> [all|missing|upcoming|downloaded] [search]"}
	if len(args) == 0 {
		return usage
	}
	kind, ok := services.ParseKind(args[0])
	if !ok || !kind.IsLibrary() {
		return usage
	}
	filter := parseLibraryFilter(args[1:])

	retry := "/library " + strings.ToLower(string(kind))
	if extra := filter.String(); extra != "" {
		retry += " " + extra
	}

	items, err := r.dashboard.GetLibrary(ctx, kind)
	if err != nil {
		r.logger.Error("Failed to get library",
			zap.String("type", string(kind)),
			zap.Error(err))
		return Reply{
			Text:  formatError(fmt.Sprintf("the %s library", kind), err),
			Retry: retry,
		}
	}

	shown := filter.Apply(items)
	if filter.Active() {
		r.logger.Debug("Library filtered",
			zap.String("type", string(kind)),
			zap.String("filter", filter.String()),
			zap.Int("total", len(items)),
			zap.Int("shown", len(shown)))
	}
	return Reply{Text: formatLibrary(kind, shown, !r.dashboard.Configured(kind), filter)}
}

func (r *Router) test(ctx context.Context, args []string) Reply {
	if len(args) == 0 {
		return Reply{Text: "Usage: /test <service name or id>"}
	}
	ref := strings.Join(args, " ")

	endpoints, err := r.catalog.Load()
	if err != nil {
		r.logger.Error("Failed to read services", zap.Error(err))
		return Reply{Text: fmt.Sprintf("❌ Error: failed to read services: %s", err.Error())}
	}

	endpoint, ok := services.Find(endpoints, ref)
	if !ok {
		return Reply{Text: fmt.Sprintf("❓ No service matches '%s'. Use /services to list them.", ref)}
	}

	result := r.dashboard.TestConnection(ctx, endpoint)
	reply := Reply{Text: formatTestResult(endpoint, result)}
	if !result.Success {
		reply.Retry = "/test " + ref
	}
	return reply
}

func (r *Router) services() Reply {
	endpoints, err := r.catalog.Load()
	if err != nil {
		r.logger.Error("Failed to read services", zap.Error(err))
		return Reply{Text: fmt.Sprintf("❌ Error: failed to read services: %s", err.Error())}
	}
	return Reply{Text: formatServices(endpoints)}
}
