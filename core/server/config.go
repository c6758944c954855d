package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ScanWorkers is the parallelism of the scan event processor.
	ScanWorkers int `mapstructure:"scan_workers" default:"4"`
	// SnapshotTTLSeconds is how long the combined inventory snapshot is
	// cached before a read rebuilds it. 0 disables caching.
	SnapshotTTLSeconds int `mapstructure:"snapshot_ttl_seconds" default:"30"`
}
