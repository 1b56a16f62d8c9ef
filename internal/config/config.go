// Package config loads the server-level ambient configuration named in
// §10 via github.com/spf13/viper: worker pool size, storage backend
// credentials, memory-pressure fraction, cache sizes, and per-request
// deadline. The descriptor-driven catalogue (layers, styles,
// TileMatrixSets) is out of scope per §1 and lives in internal/catalog
// instead; this package only covers the server's own knobs, the same
// split the reference tool draws between its CLI flags and the XML
// descriptors it reads separately.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backend is one configured Storage Context backend, keyed by name and
// referenced from a catalog.Level's Backend field.
type Backend struct {
	Type            string // "file" | "object" | "pmtiles"
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Server is the process-wide server configuration (§5, §10).
type Server struct {
	WorkerPoolSize int

	StoragePoolCapacity  int
	MemoryPressureFrac   float64 // fraction of system memory at which spill/eviction kicks in
	CacheSizeTiles       int
	RequestDeadline      time.Duration

	LogLevel string

	Backends map[string]Backend
}

// Load reads configuration from path (a YAML file) with environment
// variable overrides, matching the reference tool's flag defaults where a
// setting has a direct analogue.
func Load(path string) (*Server, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TILEFORGE")
	v.AutomaticEnv()

	v.SetDefault("worker_pool_size", 8)
	v.SetDefault("storage_pool_capacity", 32)
	v.SetDefault("memory_pressure_fraction", 0.8)
	v.SetDefault("cache_size_tiles", 1024)
	v.SetDefault("request_deadline", "30s")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	deadline, err := time.ParseDuration(v.GetString("request_deadline"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid request_deadline %q: %w", v.GetString("request_deadline"), err)
	}

	srv := &Server{
		WorkerPoolSize:      v.GetInt("worker_pool_size"),
		StoragePoolCapacity: v.GetInt("storage_pool_capacity"),
		MemoryPressureFrac:  v.GetFloat64("memory_pressure_fraction"),
		CacheSizeTiles:      v.GetInt("cache_size_tiles"),
		RequestDeadline:     deadline,
		LogLevel:            v.GetString("log_level"),
		Backends:            map[string]Backend{},
	}

	var raw map[string]map[string]interface{}
	if err := v.UnmarshalKey("backends", &raw); err != nil {
		return nil, fmt.Errorf("config: parsing backends: %w", err)
	}
	for name, fields := range raw {
		b := Backend{}
		if s, ok := fields["type"].(string); ok {
			b.Type = s
		}
		if s, ok := fields["endpoint"].(string); ok {
			b.Endpoint = s
		}
		if s, ok := fields["bucket"].(string); ok {
			b.Bucket = s
		}
		if s, ok := fields["access_key_id"].(string); ok {
			b.AccessKeyID = s
		}
		if s, ok := fields["secret_access_key"].(string); ok {
			b.SecretAccessKey = s
		}
		if ssl, ok := fields["use_ssl"].(bool); ok {
			b.UseSSL = ssl
		}
		srv.Backends[name] = b
	}

	if srv.WorkerPoolSize <= 0 {
		return nil, fmt.Errorf("config: worker_pool_size must be positive, got %d", srv.WorkerPoolSize)
	}
	return srv, nil
}
