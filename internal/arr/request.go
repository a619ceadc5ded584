package arr

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// Origin is the scheme and host the dashboard itself is served from.
// It decides whether a plain-HTTP target would be blocked as mixed content.
type Origin struct {
	Scheme string
	Host   string
}

// ParseOrigin parses an origin such as "https://hydrarr.example" or "file://"
func ParseOrigin(raw string) Origin {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Origin{Scheme: "http", Host: "localhost"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return Origin{Scheme: "http", Host: raw}
	}
	return Origin{Scheme: strings.ToLower(u.Scheme), Host: u.Hostname()}
}

// Secure returns true for an https origin
func (o Origin) Secure() bool {
	return o.Scheme == "https"
}

// Local returns true when the origin is a loopback host or a local file
func (o Origin) Local() bool {
	return o.Scheme == "file" || isLocalHost(o.Host)
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}

// Credentials are the optional secrets of an endpoint
type Credentials struct {
	APIKey   string
	Username string
	Password string
}

// Request is a ready-to-send upstream call
type Request struct {
	URL    string
	Header http.Header
}

// NormalizeBaseURL trims whitespace and a trailing slash and adds http://
// when no scheme is present
func NormalizeBaseURL(baseURL string) string {
	clean := strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !schemePattern.MatchString(clean) {
		clean = "http://" + clean
	}
	return clean
}

// BuildRequest resolves the URL and auth headers for one call.
// An API key goes in the query string, which keeps the request simple enough
// to avoid a CORS preflight; Basic auth is used only without an API key.
func BuildRequest(origin Origin, baseURL, endpoint string, creds Credentials) (*Request, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, NewError(ErrConfigMissing, "Base URL is missing", 0)
	}

	cleanBase := NormalizeBaseURL(baseURL)

	if origin.Secure() && strings.HasPrefix(strings.ToLower(cleanBase), "http:") &&
		!origin.Local() && !targetIsLocal(cleanBase) {
		return nil, newMixedContentError(cleanBase)
	}

	reqURL := cleanBase + "/" + strings.TrimPrefix(endpoint, "/")

	apiKey := strings.TrimSpace(creds.APIKey)
	if apiKey != "" {
		separator := "?"
		if strings.Contains(reqURL, "?") {
			separator = "&"
		}
		reqURL += separator + "apikey=" + url.QueryEscape(apiKey)
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	if apiKey == "" && creds.Username != "" && creds.Password != "" {
		token := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
		header.Set("Authorization", "Basic "+token)
	}

	return &Request{URL: reqURL, Header: header}, nil
}

func targetIsLocal(cleanBase string) bool {
	u, err := url.Parse(cleanBase)
	if err != nil {
		return false
	}
	return isLocalHost(u.Hostname())
}

// redactURL hides the apikey query value for logging
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("apikey") == "" {
		return raw
	}
	q.Set("apikey", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
