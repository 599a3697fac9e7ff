package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"post_scheduler/internal/comment"
	"post_scheduler/internal/facebook"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Graph     GraphConfig     `yaml:"graph"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Server    ServerConfig    `yaml:"server"`
	LogLevel  string          `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// GraphConfig configures the publishing provider client.
type GraphConfig struct {
	BaseURL      string        `yaml:"base_url"`
	VideoBaseURL string        `yaml:"video_base_url"`
	APIVersion   string        `yaml:"api_version"`
	Timeout      time.Duration `yaml:"timeout"`
	VideoTimeout time.Duration `yaml:"video_timeout"`
}

type SchedulerConfig struct {
	// UTCOffsetHours fixes the zone in which the day window is computed.
	UTCOffsetHours   int           `yaml:"utc_offset_hours"`
	ScanTimeout      time.Duration `yaml:"scan_timeout"`
	ShuffleThreshold int           `yaml:"shuffle_threshold"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "post_scheduler"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "dispatches"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "dispatch_reports"
	}
	if c.Graph.BaseURL == "" {
		c.Graph.BaseURL = facebook.DefaultBaseURL
	}
	if c.Graph.VideoBaseURL == "" {
		c.Graph.VideoBaseURL = facebook.DefaultVideoBaseURL
	}
	if c.Graph.APIVersion == "" {
		c.Graph.APIVersion = facebook.DefaultAPIVersion
	}
	if c.Graph.Timeout == 0 {
		c.Graph.Timeout = 30 * time.Second
	}
	if c.Graph.VideoTimeout == 0 {
		c.Graph.VideoTimeout = 10 * time.Minute
	}
	if c.Scheduler.ScanTimeout == 0 {
		c.Scheduler.ScanTimeout = 30 * time.Minute
	}
	if c.Scheduler.ShuffleThreshold == 0 {
		c.Scheduler.ShuffleThreshold = comment.DefaultShuffleThreshold
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
