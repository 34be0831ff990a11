package storage

import (
	"context"
	"fmt"
)

// StoreConstructor is a function that creates a store instance
type StoreConstructor func(ctx context.Context, cfg Config) (Store, error)

var storeRegistry = make(map[string]StoreConstructor)

// RegisterStore registers a store constructor
func RegisterStore(storeType string, constructor StoreConstructor) {
	storeRegistry[storeType] = constructor
}

// Factory creates parameter stores from configuration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a store from config
func (f *Factory) Create(ctx context.Context, cfg Config) (Store, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("store %s is disabled", cfg.Name)
	}

	constructor, ok := storeRegistry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}

	return constructor(ctx, cfg)
}

// CreateAll creates all enabled stores from slice of configs
func (f *Factory) CreateAll(ctx context.Context, configs []Config) ([]Store, error) {
	stores := make([]Store, 0, len(configs))

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		store, err := f.Create(ctx, cfg)
		if err != nil {
			// Close already created stores
			for _, s := range stores {
				s.Close()
			}
			return nil, fmt.Errorf("failed to create store %s: %w", cfg.Name, err)
		}

		stores = append(stores, store)
	}

	return stores, nil
}
