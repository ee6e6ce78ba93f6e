// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ErrNoConfigVersion error is returned when the configuration does not specify
// config format version.
var ErrNoConfigVersion = errors.New("config format version not specified")

// ErrUnsupportedVersion is an error, which is returned when the config file
// uses an incompatible version format.
var ErrUnsupportedVersion = errors.New("unsupported config format version")

// ConfigFormatVersion represents the supported config format version.
const ConfigFormatVersion = "v1alpha1"

// DefaultQueueName is the name of the default queue.
const DefaultQueueName = "default"

// Config represents the warehouse configuration.
type Config struct {
	// Version is the version of the config file.
	Version string `yaml:"version"`

	// Debug configures debug mode, if set to true.
	Debug bool `yaml:"debug"`

	// Logging provides the logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Redis represents the Redis configuration.
	Redis RedisConfig `yaml:"redis"`

	// Database represents the database configuration.
	Database DatabaseConfig `yaml:"database"`

	// Worker represents the worker configuration.
	Worker WorkerConfig `yaml:"worker"`

	// Scheduler represents the scheduler configuration.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Dashboard represents the dashboard configuration.
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Nexudus represents the upstream Nexudus API configuration.
	Nexudus NexudusConfig `yaml:"nexudus"`

	// Archive represents the raw snapshot archive configuration.
	Archive ArchiveConfig `yaml:"archive"`

	// Vault represents the Vault configuration.
	Vault VaultConfig `yaml:"vault"`
}

// LoggingConfig provides the logging configuration settings.
type LoggingConfig struct {
	// Level specifies the log level to use.
	Level string `yaml:"level"`

	// Format specifies the log format to use.
	Format string `yaml:"format"`

	// AddSource specifies whether to include source code position of the
	// log statement in log events.
	AddSource bool `yaml:"add_source"`

	// Attributes specifies additional attributes to add to each log event.
	Attributes map[string]string `yaml:"attributes"`
}

// RedisConfig provides Redis specific configuration settings.
type RedisConfig struct {
	// Endpoint is the endpoint of the Redis service.
	Endpoint string `yaml:"endpoint"`
}

// DatabaseConfig provides database specific configuration settings.
type DatabaseConfig struct {
	// DSN is the Data Source Name to connect to.
	DSN string `yaml:"dsn"`

	// MigrationDirectory specifies an alternate location with migration
	// files.
	MigrationDirectory string `yaml:"migration_dir"`
}

// MetricsConfig provides the metrics configuration settings.
type MetricsConfig struct {
	// Address specifies the address on which the metrics HTTP server
	// listens.
	Address string `yaml:"address"`

	// Path specifies the HTTP path from which metrics are served.
	Path string `yaml:"path"`
}

// WorkerConfig provides worker specific configuration settings.
type WorkerConfig struct {
	// Metrics provides the metrics configuration for the worker.
	Metrics MetricsConfig `yaml:"metrics"`

	// Concurrency specifies the concurrency level for workers.
	Concurrency int `yaml:"concurrency"`

	// Queues specifies the queues from which the worker processes tasks,
	// along with their priorities.
	Queues map[string]int `yaml:"queues"`

	// StrictPriority specifies whether queue priorities are treated
	// strictly.
	StrictPriority bool `yaml:"strict_priority"`
}

// PeriodicJob is a job, which is enqueued by the scheduler on regular
// intervals.
type PeriodicJob struct {
	// Name specifies the name of the task to enqueue.
	Name string `yaml:"name"`

	// Spec represents the cron spec for the job.
	Spec string `yaml:"spec"`

	// Desc is an optional description of the job.
	Desc string `yaml:"desc"`

	// Payload is an optional payload to submit the task with.
	Payload string `yaml:"payload"`

	// Queue specifies the name of the queue to which the task is
	// submitted.
	Queue string `yaml:"queue"`
}

// SchedulerConfig provides the scheduler configuration settings.
type SchedulerConfig struct {
	// DefaultQueue specifies the queue to which tasks are submitted, when
	// a job does not specify one.
	DefaultQueue string `yaml:"default_queue"`

	// Jobs is the list of periodic jobs managed by the scheduler.
	Jobs []*PeriodicJob `yaml:"jobs"`
}

// DashboardConfig provides the dashboard configuration settings.
type DashboardConfig struct {
	// Address specifies the address on which the dashboard HTTP server
	// listens.
	Address string `yaml:"address"`

	// ReadOnly specifies whether the dashboard is started in read-only
	// mode.
	ReadOnly bool `yaml:"read_only"`

	// PrometheusEndpoint specifies the Prometheus endpoint from which the
	// dashboard reads queue metrics.
	PrometheusEndpoint string `yaml:"prometheus_endpoint"`
}

// NexudusConfig provides the upstream Nexudus API configuration settings.
type NexudusConfig struct {
	// Endpoint specifies the base endpoint of the Nexudus API.
	Endpoint string `yaml:"endpoint"`

	// Username specifies the username to authenticate with when
	// exchanging credentials for an access token.
	Username string `yaml:"username"`

	// Password specifies the password to authenticate with.
	Password string `yaml:"password"`

	// Token specifies a static access token. When set, the token is used
	// as-is and no credentials exchange is performed.
	Token string `yaml:"token"`

	// PageSize specifies the number of records to request per page.
	PageSize int `yaml:"page_size"`

	// MaxInFlight specifies the max number of concurrent in-flight
	// requests against the Nexudus API.
	MaxInFlight int `yaml:"max_in_flight"`
}

// ArchiveConfig provides the configuration of the raw snapshot archive.
type ArchiveConfig struct {
	// Enabled specifies whether raw snapshots are archived to the object
	// store.
	Enabled bool `yaml:"enabled"`

	// Endpoint specifies an alternate S3-compatible endpoint to use.
	Endpoint string `yaml:"endpoint"`

	// Region specifies the region of the bucket.
	Region string `yaml:"region"`

	// Bucket specifies the name of the bucket to which snapshots are
	// uploaded.
	Bucket string `yaml:"bucket"`

	// Prefix specifies an optional key prefix for snapshot objects.
	Prefix string `yaml:"prefix"`

	// AccessKeyID specifies the access key id to authenticate with.
	AccessKeyID string `yaml:"access_key_id"`

	// SecretAccessKey specifies the secret access key to authenticate
	// with.
	SecretAccessKey string `yaml:"secret_access_key"`

	// UsePathStyle specifies whether to use path-style addressing,
	// which is required by some S3-compatible object stores.
	UsePathStyle bool `yaml:"use_path_style"`
}

// VaultConfig provides the Vault configuration settings.
//
// When an endpoint is configured the upstream API credentials are read from
// the specified KV v2 secret, instead of the config file.
type VaultConfig struct {
	// Endpoint specifies the Vault endpoint to connect to.
	Endpoint string `yaml:"endpoint"`

	// Token specifies the Vault token to authenticate with. When empty
	// the token is read from the VAULT_TOKEN environment variable.
	Token string `yaml:"token"`

	// SecretsMount specifies the mount path of the KV v2 secrets engine.
	SecretsMount string `yaml:"secrets_mount"`

	// SecretPath specifies the path of the secret holding the upstream
	// API credentials.
	SecretPath string `yaml:"secret_path"`
}

// Parse parses the config from the given path.
func Parse(path string) (*Config, error) {
	var conf Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}

	if conf.Version == "" {
		return nil, ErrNoConfigVersion
	}

	if conf.Version != ConfigFormatVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, conf.Version)
	}

	return &conf, nil
}

// MustParse parses the config from the given path, or panics in case of errors.
func MustParse(path string) *Config {
	config, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return config
}
