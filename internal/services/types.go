package services

import "strings"

// Kind identifies the logical type of a configured backend
type Kind string

const (
	KindRadarr      Kind = "Radarr"
	KindSonarr      Kind = "Sonarr"
	KindLidarr      Kind = "Lidarr"
	KindReadarr     Kind = "Readarr"
	KindPlex        Kind = "Plex"
	KindSABnzbd     Kind = "SABnzbd"
	KindQBittorrent Kind = "qBittorrent"
)

// LibraryKinds are the library managers, in the order providers are tried
var LibraryKinds = []Kind{KindRadarr, KindSonarr, KindLidarr, KindReadarr}

// IsLibrary returns true for the *arr library managers
func (k Kind) IsLibrary() bool {
	for _, lk := range LibraryKinds {
		if k == lk {
			return true
		}
	}
	return false
}

// ParseKind resolves a case-insensitive name to a Kind
func ParseKind(name string) (Kind, bool) {
	all := []Kind{KindRadarr, KindSonarr, KindLidarr, KindReadarr, KindPlex, KindSABnzbd, KindQBittorrent}
	for _, k := range all {
		if strings.EqualFold(string(k), strings.TrimSpace(name)) {
			return k, true
		}
	}
	return "", false
}

// Endpoint is one configured backend service
type Endpoint struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Type     Kind   `json:"type" yaml:"type"`
	URL      string `json:"url" yaml:"url"`
	APIKey   string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
}

// Usable returns true if the endpoint may be queried
func (e Endpoint) Usable() bool {
	return e.Enabled && strings.TrimSpace(e.URL) != ""
}

// Provider is the read-only view of the persisted configuration.
// Implementations must reflect edits on the next call.
type Provider interface {
	// Lookup returns the first usable endpoint of the given kind
	Lookup(kind Kind) (Endpoint, bool)

	// Enabled returns every usable endpoint in stored order
	Enabled() ([]Endpoint, error)
}

// Catalog is a Provider that can also list disabled endpoints
type Catalog interface {
	Provider
	Load() ([]Endpoint, error)
}

// Find resolves ref against endpoints by ID, then name, then type.
// Names and types match case-insensitively.
func Find(endpoints []Endpoint, ref string) (Endpoint, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Endpoint{}, false
	}
	for _, e := range endpoints {
		if e.ID == ref {
			return e, true
		}
	}
	for _, e := range endpoints {
		if strings.EqualFold(e.Name, ref) {
			return e, true
		}
	}
	if kind, ok := ParseKind(ref); ok {
		for _, e := range endpoints {
			if e.Type == kind {
				return e, true
			}
		}
	}
	return Endpoint{}, false
}

func firstUsable(endpoints []Endpoint, kind Kind) (Endpoint, bool) {
	for _, e := range endpoints {
		if e.Type == kind && e.Usable() {
			return e, true
		}
	}
	return Endpoint{}, false
}

func usable(endpoints []Endpoint) []Endpoint {
	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Usable() {
			out = append(out, e)
		}
	}
	return out
}
