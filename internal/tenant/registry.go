package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type AppConfig struct {
	AppID   string `json:"app_id"`
	AppName string `json:"app_name"`
	Active  bool   `json:"active"`
}

type AppsFile struct {
	Apps []AppConfig `json:"apps"`
}

type Registry struct {
	mu   sync.RWMutex
	apps map[string]*AppConfig
}

func NewRegistry() *Registry {
	return &Registry{
		apps: make(map[string]*AppConfig),
	}
}

// DefaultRegistry returns the compiled-in app set. Deployments override it
// by shipping an apps.json file.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(&AppConfig{AppID: "gamebrief", AppName: "GameBrief", Active: true})
	registry.Register(&AppConfig{AppID: "passport", AppName: "Player Passport", Active: true})
	return registry
}

// LoadFromFile reads the app registry from path. A missing file falls back
// to the compiled-in defaults; a malformed file is a startup error.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read apps config: %w", err)
	}

	var file AppsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse apps config: %w", err)
	}

	registry := NewRegistry()
	for i := range file.Apps {
		registry.Register(&file.Apps[i])
	}
	return registry, nil
}

func (r *Registry) Register(cfg *AppConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[cfg.AppID] = cfg
}

func (r *Registry) Get(appID string) *AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.apps[appID]
}

// Exists reports whether appID names an active app. Deactivated apps stay
// registered so their rows keep a name, but new requests are rejected.
func (r *Registry) Exists(appID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.apps[appID]
	return ok && cfg.Active
}

func (r *Registry) All() []*AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*AppConfig, 0, len(r.apps))
	for _, cfg := range r.apps {
		result = append(result, cfg)
	}
	return result
}

// ToMap returns app_id -> app_name for all registered apps.
func (r *Registry) ToMap() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]string, len(r.apps))
	for id, cfg := range r.apps {
		result[id] = cfg.AppName
	}
	return result
}
