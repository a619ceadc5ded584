package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileStore reads endpoints from a JSON or YAML file on every call, so edits
// made by the settings screen apply to the next fetch.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store backed by path
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads and decodes the backing file. A missing file is an empty store.
func (fs *FileStore) Load() ([]Endpoint, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read services file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var endpoints []Endpoint
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &endpoints)
	default:
		err = json.Unmarshal(data, &endpoints)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode services file %s: %w", fs.path, err)
	}

	return endpoints, nil
}

// Lookup returns the first usable endpoint of the given kind.
// A store that cannot be read behaves as if nothing is configured.
func (fs *FileStore) Lookup(kind Kind) (Endpoint, bool) {
	endpoints, err := fs.Load()
	if err != nil {
		fs.logger.Warn("Could not load services",
			zap.String("path", fs.path),
			zap.Error(err))
		return Endpoint{}, false
	}
	return firstUsable(endpoints, kind)
}

// Enabled returns every usable endpoint
func (fs *FileStore) Enabled() ([]Endpoint, error) {
	endpoints, err := fs.Load()
	if err != nil {
		return nil, err
	}
	return usable(endpoints), nil
}

// AssignIDs gives every endpoint without an ID a fresh one and writes the
// file back when anything changed. It returns the number of IDs assigned.
func (fs *FileStore) AssignIDs() (int, error) {
	endpoints, err := fs.Load()
	if err != nil {
		return 0, err
	}

	assigned := assignMissingIDs(endpoints)
	if assigned == 0 {
		return 0, nil
	}
	if err := fs.Save(endpoints); err != nil {
		return 0, err
	}
	return assigned, nil
}

func assignMissingIDs(endpoints []Endpoint) int {
	assigned := 0
	for i := range endpoints {
		if strings.TrimSpace(endpoints[i].ID) == "" {
			endpoints[i].ID = uuid.NewString()
			assigned++
		}
	}
	return assigned
}

// Save writes endpoints back as JSON or YAML depending on the file extension.
// Endpoints without an ID are given one in place before writing.
func (fs *FileStore) Save(endpoints []Endpoint) error {
	assignMissingIDs(endpoints)

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(fs.path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(endpoints)
	default:
		data, err = json.MarshalIndent(endpoints, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode services: %w", err)
	}

	if dir := filepath.Dir(fs.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create services directory: %w", err)
		}
	}

	if err := os.WriteFile(fs.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write services file: %w", err)
	}

	fs.logger.Info("Services saved",
		zap.String("path", fs.path),
		zap.Int("count", len(endpoints)))
	return nil
}
