package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	commoncfg "healthsync/common/config"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// File store backends
const (
	FilesLocal = "local"
	FilesS3    = "s3"
)

// Activity event sinks
const (
	SinkNone  = "none"
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkMQTT  = "mqtt"
	SinkKafka = "kafka"
)

// Config healthsync service configuration
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Storage  StorageConfig            `yaml:"storage"`
	Database commoncfg.DatabaseConfig `yaml:"database"`
	Redis    commoncfg.RedisConfig    `yaml:"redis"`

	Files FilesConfig `yaml:"files"`

	Events EventsConfig          `yaml:"events"`
	MQTT   commoncfg.MQTTConfig  `yaml:"mqtt"`
	Kafka  commoncfg.KafkaConfig `yaml:"kafka"`

	Device    DeviceConfig    `yaml:"device"`
	Auth      AuthConfig      `yaml:"auth"`
	Biometric BiometricConfig `yaml:"biometric"`
}

// StorageConfig selects the record store backend.
// Secure-tier keys share the backend under SecurePrefix.
type StorageConfig struct {
	Backend      string `yaml:"backend"`
	SecurePrefix string `yaml:"secure_prefix"`
}

type FilesConfig struct {
	Backend string             `yaml:"backend"`
	Dir     string             `yaml:"dir"`
	S3      commoncfg.S3Config `yaml:"s3"`
}

type EventsConfig struct {
	Sink         string `yaml:"sink"`
	Stream       string `yaml:"stream"`
	StreamMaxLen int64  `yaml:"stream_max_len"`
}

type DeviceConfig struct {
	ScanDelay      time.Duration `yaml:"scan_delay"`
	ConnectDelay   time.Duration `yaml:"connect_delay"`
	VitalsInterval time.Duration `yaml:"vitals_interval"`
}

type Account struct {
	Account  string `yaml:"account"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	Accounts []Account `yaml:"accounts"`
}

// BiometricConfig drives the static biometric capability
type BiometricConfig struct {
	Hardware bool   `yaml:"hardware"`
	Enrolled bool   `yaml:"enrolled"`
	Result   string `yaml:"result"` // success | failure | cancelled
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.SecurePrefix = "secure:"
	cfg.Database = commoncfg.DatabaseConfig{
		Path:     "data/healthsync.db",
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "healthsync",
		SSLMode:  "disable",
	}
	cfg.Redis.Addr = "localhost:6379"

	cfg.Files.Backend = FilesLocal
	cfg.Files.Dir = "data/files"
	cfg.Files.S3.Prefix = "reports"

	cfg.Events.Sink = SinkLog
	cfg.Events.Stream = "healthsync:activity"
	cfg.Events.StreamMaxLen = 10000
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "healthsync"
	cfg.MQTT.QoS = 1
	cfg.MQTT.TopicPrefix = "healthsync/activity"
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topic = "healthsync.activity"

	cfg.Device.ScanDelay = 2 * time.Second
	cfg.Device.ConnectDelay = 1 * time.Second
	cfg.Device.VitalsInterval = 5 * time.Second

	cfg.Auth.Accounts = []Account{
		{Account: "demo@healthsync.app", Password: "healthsync"},
		{Account: "demo", Password: "demo"},
	}
	cfg.Biometric = BiometricConfig{Hardware: true, Enrolled: true, Result: "success"}
	return cfg
}

// Load applies defaults, then the YAML file named by HEALTHSYNC_CONFIG, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("HEALTHSYNC_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.SecurePrefix = getEnv("STORAGE_SECURE_PREFIX", cfg.Storage.SecurePrefix)
	cfg.Database.LoadFromEnv("DB")
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Files.Backend = getEnv("FILES_BACKEND", cfg.Files.Backend)
	cfg.Files.Dir = getEnv("FILES_DIR", cfg.Files.Dir)
	cfg.Files.S3.LoadFromEnv("S3")

	cfg.Events.Sink = getEnv("EVENTS_SINK", cfg.Events.Sink)
	cfg.Events.Stream = getEnv("EVENTS_STREAM", cfg.Events.Stream)
	cfg.Events.StreamMaxLen = int64(parseInt(getEnv("EVENTS_STREAM_MAX_LEN", ""), int(cfg.Events.StreamMaxLen)))
	cfg.MQTT.LoadFromEnv("MQTT")
	cfg.Kafka.LoadFromEnv("KAFKA")

	cfg.Device.ScanDelay = parseDuration(getEnv("DEVICE_SCAN_DELAY", ""), cfg.Device.ScanDelay)
	cfg.Device.ConnectDelay = parseDuration(getEnv("DEVICE_CONNECT_DELAY", ""), cfg.Device.ConnectDelay)
	cfg.Device.VitalsInterval = parseDuration(getEnv("VITALS_INTERVAL", ""), cfg.Device.VitalsInterval)

	if account := os.Getenv("AUTH_ACCOUNT"); account != "" {
		cfg.Auth.Accounts = append(cfg.Auth.Accounts, Account{Account: account, Password: os.Getenv("AUTH_PASSWORD")})
	}
	cfg.Biometric.Hardware = getEnv("BIOMETRIC_HARDWARE", strconv.FormatBool(cfg.Biometric.Hardware)) == "true"
	cfg.Biometric.Enrolled = getEnv("BIOMETRIC_ENROLLED", strconv.FormatBool(cfg.Biometric.Enrolled)) == "true"
	cfg.Biometric.Result = getEnv("BIOMETRIC_RESULT", cfg.Biometric.Result)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown backend names
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Files.Backend {
	case FilesLocal, FilesS3:
	default:
		return fmt.Errorf("unknown files backend %q", c.Files.Backend)
	}
	switch c.Events.Sink {
	case SinkNone, SinkLog, SinkRedis, SinkMQTT, SinkKafka:
	default:
		return fmt.Errorf("unknown events sink %q", c.Events.Sink)
	}
	if c.Files.Backend == FilesS3 && c.Files.S3.Bucket == "" {
		return fmt.Errorf("files backend s3 needs S3_BUCKET")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
