// Package prefs is the durable key-value store backing the search panel.
// Values live in a TOML file under the user config dir; dotted keys map to
// tables ("search.lastValue" -> [search] lastValue). Every Set persists the
// file and notifies subscribers.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// Store is a durable key-value store with change notification.
type Store struct {
	log  *zap.Logger
	path string

	mu     sync.Mutex
	values map[string]map[string]any
	subs   map[int]func(key string)
	nextID int
}

// DefaultPath returns the state file location under the user config dir.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "clipscout", "state.toml")
}

// Open loads the store at path, creating an empty one if the file does not
// exist yet.
func Open(path string, log *zap.Logger) (*Store, error) {
	s := &Store{
		log:    log,
		path:   path,
		values: make(map[string]map[string]any),
		subs:   make(map[int]func(string)),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	for section, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			continue
		}
		s.values[section] = table
	}
	return s, nil
}

// Set stores a value under a dotted key, persists the file and notifies
// subscribers.
func (s *Store) Set(key string, value any) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.values[section] == nil {
		s.values[section] = make(map[string]any)
	}
	s.values[section][field] = value
	err = s.persistLocked()
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range subs {
		fn(key)
	}
	return nil
}

// Delete removes a key, persists and notifies.
func (s *Store) Delete(key string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if table := s.values[section]; table != nil {
		delete(table, field)
	}
	err = s.persistLocked()
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range subs {
		fn(key)
	}
	return nil
}

// OnChange registers a callback invoked with the key after every persisted
// mutation. Returns an unsubscribe function.
func (s *Store) OnChange(fn func(key string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// GetString returns the string at key, or def when absent or mistyped.
func (s *Store) GetString(key, def string) string {
	if v, ok := s.lookup(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return def
}

// GetInt returns the integer at key, or def when absent or mistyped.
func (s *Store) GetInt(key string, def int) int {
	if v, ok := s.lookup(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

// GetBool returns the boolean at key, or def when absent or mistyped.
func (s *Store) GetBool(key string, def bool) bool {
	if v, ok := s.lookup(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetStringSlice returns the string list at key, or nil when absent.
func (s *Store) GetStringSlice(key string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func (s *Store) lookup(key string) (any, bool) {
	section, field, err := splitKey(key)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.values[section]
	if table == nil {
		return nil, false
	}
	v, ok := table[field]
	return v, ok
}

// persistLocked writes the file; callers hold s.mu.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.log.Debug("state persisted", zap.String("path", s.path))
	return nil
}

func splitKey(key string) (section, field string, err error) {
	i := strings.Index(key, ".")
	if i <= 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("invalid state key %q: want section.field", key)
	}
	return key[:i], key[i+1:], nil
}
