package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Campaign CampaignConfig `mapstructure:"campaign"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

// WorkflowConfig holds consent workflow tuning
type WorkflowConfig struct {
	PendingQueue PendingQueueConfig `mapstructure:"pending_queue"`
	Priority     PriorityConfig     `mapstructure:"priority"`
	Bulk         BulkConfig         `mapstructure:"bulk"`
}

// PendingQueueConfig bounds the pending consent queue
type PendingQueueConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// PriorityConfig holds the weights of the pending queue scorer
type PriorityConfig struct {
	StageWeights       map[string]float64 `mapstructure:"stage_weights"`
	PerDayWeight       float64            `mapstructure:"per_day_weight"`
	MaxDays            int                `mapstructure:"max_days"`
	ElderPendingWeight float64            `mapstructure:"elder_pending_weight"`
	FollowUpDueWeight  float64            `mapstructure:"follow_up_due_weight"`
}

// BulkConfig bounds bulk advance requests
type BulkConfig struct {
	MaxItems    int `mapstructure:"max_items"`
	Concurrency int `mapstructure:"concurrency"`
}

// CampaignConfig holds campaign settings
type CampaignConfig struct {
	SlugMaxAttempts int `mapstructure:"slug_max_attempts"`
}

// setDefaults registers values used when neither the file nor the environment sets them
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "campaign_workflow.db")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-Tenant-ID", "X-User-ID", "X-User-Role", "X-Correlation-ID"})

	v.SetDefault("workflow.pending_queue.default_limit", 50)
	v.SetDefault("workflow.pending_queue.max_limit", 200)
	v.SetDefault("workflow.priority.per_day_weight", 1.0)
	v.SetDefault("workflow.priority.max_days", 90)
	v.SetDefault("workflow.priority.elder_pending_weight", 15.0)
	v.SetDefault("workflow.priority.follow_up_due_weight", 25.0)
	v.SetDefault("workflow.bulk.max_items", 500)
	v.SetDefault("workflow.bulk.concurrency", 8)

	v.SetDefault("campaign.slug_max_attempts", 5)
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	// Read from environment variables, e.g. CAMPAIGN_API_DATABASE_TYPE
	v.SetEnvPrefix("CAMPAIGN_API")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Database.Type {
	case "mysql":
		if config.Database.Hostname == "" {
			return fmt.Errorf("database hostname is required")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	case "sqlite":
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database type: %q", config.Database.Type)
	}

	q := config.Workflow.PendingQueue
	if q.DefaultLimit <= 0 || q.MaxLimit <= 0 {
		return fmt.Errorf("pending queue limits must be positive")
	}
	if q.DefaultLimit > q.MaxLimit {
		return fmt.Errorf("pending queue default limit %d exceeds max limit %d", q.DefaultLimit, q.MaxLimit)
	}

	if config.Workflow.Bulk.MaxItems <= 0 {
		return fmt.Errorf("bulk max items must be positive")
	}
	if config.Workflow.Bulk.Concurrency <= 0 {
		return fmt.Errorf("bulk concurrency must be positive")
	}

	for stage := range config.Workflow.Priority.StageWeights {
		if !isPendingStage(stage) {
			return fmt.Errorf("priority weight set for unknown or terminal stage %q", stage)
		}
	}

	if config.Campaign.SlugMaxAttempts <= 0 {
		return fmt.Errorf("campaign slug max attempts must be positive")
	}

	return nil
}

func isPendingStage(stage string) bool {
	switch stage {
	case "invited", "interested", "consented", "recorded", "reviewed":
		return true
	}
	return false
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	if d.Type == "sqlite" {
		if d.Path == ":memory:" {
			return "file::memory:?_pragma=foreign_keys(1)"
		}
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", d.Path)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true&clientFoundRows=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}
