package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/masterwizr/sluice/internal/model"
)

// Version is the sluice release version.
var Version = "0.3.0"

// Config holds all sluice configuration.
type Config struct {
	Mode     string // "run", "export", "load"
	Date     string // export day, YYYY-MM-DD (UTC)
	LogLevel string

	Connector   ConnectorConfig
	ObjectStore ObjectStoreConfig
	Mongo       MongoConfig
	Pipeline    PipelineConfig
}

// ConnectorConfig holds export-source settings.
type ConnectorConfig struct {
	Provider  string // "amplitude" or "file"
	APIKey    string
	SecretKey string
	ProjectID string
	Endpoint  string // base URL override for the amplitude provider
	Dir       string // source directory for the file provider
}

// ObjectStoreConfig holds S3-compatible object store settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string // key prefix for landed exports, e.g. "amplitude/"
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// PipelineConfig holds normalization and partitioning settings.
type PipelineConfig struct {
	Sink      string // "mongo" or "stdout" (dry run)
	URLField  string // normalized column the domain is derived from
	Buckets   []model.Bucket
	NotifyURL string // optional run-report webhook
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is applied first, if present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Mode:     getenv("SLUICE_MODE", "run"),
		Date:     getenv("SLUICE_DATE", time.Now().UTC().Format("2006-01-02")),
		LogLevel: getenv("SLUICE_LOG_LEVEL", "info"),
		Connector: ConnectorConfig{
			Provider:  getenv("SLUICE_CONNECTOR", "amplitude"),
			APIKey:    os.Getenv("AMPLITUDE_API_KEY"),
			SecretKey: os.Getenv("AMPLITUDE_SECRET_KEY"),
			ProjectID: os.Getenv("DATA_PATH"),
			Endpoint:  getenv("SLUICE_AMPLITUDE_URL", "https://amplitude.com"),
			Dir:       os.Getenv("SLUICE_FILE_DIR"),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:  getenv("S3_ENDPOINT", "s3.amazonaws.com"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			UseSSL:    getenvBool("S3_USE_SSL", true),
			Bucket:    os.Getenv("S3_BUCKET_NAME"),
			Prefix:    getenv("SLUICE_OBJECT_PREFIX", "amplitude/"),
		},
		Mongo: MongoConfig{
			URI:            os.Getenv("MONGO_URI"),
			Database:       getenv("MONGO_DATABASE", "masterwizr-data-db"),
			ConnectTimeout: getenvDuration("SLUICE_MONGO_TIMEOUT", 10*time.Second),
		},
		Pipeline: PipelineConfig{
			Sink:      getenv("SLUICE_SINK", "mongo"),
			URLField:  getenv("SLUICE_URL_FIELD", "event_properties_url"),
			Buckets:   loadBuckets(),
			NotifyURL: os.Getenv("SLUICE_NOTIFY_URL"),
		},
	}
}

// Validate checks the configuration for the selected mode. All problems
// are reported together.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case "run", "export", "load":
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q (want run, export, or load)", c.Mode))
	}

	if _, err := time.Parse("2006-01-02", c.Date); err != nil {
		errs = append(errs, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", c.Date))
	}

	if c.ObjectStore.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET_NAME is required"))
	}

	exporting := c.Mode == "run" || c.Mode == "export"
	loading := c.Mode == "run" || c.Mode == "load"

	if exporting {
		switch c.Connector.Provider {
		case "amplitude":
			if c.Connector.APIKey == "" || c.Connector.SecretKey == "" {
				errs = append(errs, errors.New("AMPLITUDE_API_KEY and AMPLITUDE_SECRET_KEY are required for the amplitude connector"))
			}
		case "file":
			if c.Connector.Dir == "" {
				errs = append(errs, errors.New("SLUICE_FILE_DIR is required for the file connector"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown connector provider %q", c.Connector.Provider))
		}
		if c.Connector.ProjectID == "" {
			errs = append(errs, errors.New("DATA_PATH (project id) is required"))
		}
	}

	if loading {
		switch c.Pipeline.Sink {
		case "mongo":
			if c.Mongo.URI == "" {
				errs = append(errs, errors.New("MONGO_URI is required for the mongo sink"))
			}
		case "stdout":
		default:
			errs = append(errs, fmt.Errorf("unknown sink %q (want mongo or stdout)", c.Pipeline.Sink))
		}
		if len(c.Pipeline.Buckets) == 0 {
			errs = append(errs, errors.New("at least one environment bucket is required"))
		}
	}

	return errors.Join(errs...)
}

// loadBuckets reads per-environment domain overrides, falling back to the
// built-in deployment hosts.
func loadBuckets() []model.Bucket {
	defaults := DefaultBuckets()
	buckets := make([]model.Bucket, 0, len(defaults))
	for _, b := range defaults {
		env := "SLUICE_" + strings.ToUpper(b.Name) + "_DOMAINS"
		if v := os.Getenv(env); v != "" {
			b.Domains = splitList(v)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// DefaultBuckets returns the static deployment-environment domain tables.
func DefaultBuckets() []model.Bucket {
	return []model.Bucket{
		{Name: "staging", Domains: []string{"master.mwstream.com", "studio.mwstream.com"}},
		{Name: "beta", Domains: []string{"beta-studio.mwstream.com", "beta-library.mwstream.com"}},
		{Name: "production", Domains: []string{"studio.masterwizr.com", "stream.masterwizr.com"}},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
