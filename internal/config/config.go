// Package config loads the driver configuration from a file and the
// environment.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/protocol"
	"github.com/moffa90/go-ad013/sensor"
)

// EnvPrefix prefixes every environment override, e.g. AD013_SERIAL_PORT.
const EnvPrefix = "AD013"

// SerialConfig selects the serial link.
type SerialConfig struct {
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"` // 0 scans every supported speed
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// SensorConfig addresses the module.
type SensorConfig struct {
	DeviceID     string `mapstructure:"deviceID"` // 8 hex digits
	Password     string `mapstructure:"password"` // 8 hex digits
	Retries      int    `mapstructure:"retries"`
	MinFrameSize int    `mapstructure:"minFrameSize"`
}

// SearchConfig tunes the capture and match workflow.
type SearchConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	PollDelay           time.Duration `mapstructure:"pollDelay"`
	ProcessingDelay     time.Duration `mapstructure:"processingDelay"`
	SecurityOfficerOnly bool          `mapstructure:"securityOfficerOnly"`
	MinScore            int           `mapstructure:"minScore"`
}

// LumberjackConfig configures the rolling log file.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig sets the log level and outputs.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig exposes Prometheus metrics.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// CaptureConfig records or replays transcripts.
type CaptureConfig struct {
	Record string `mapstructure:"record"` // transcript written on exit
	Replay string `mapstructure:"replay"` // transcript served instead of the serial port
}

// Config is the top-level configuration.
type Config struct {
	Serial  SerialConfig  `mapstructure:"serial"`
	Sensor  SensorConfig  `mapstructure:"sensor"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Capture CaptureConfig `mapstructure:"capture"`
}

// Load reads configuration from a YAML/TOML/JSON file and the environment.
// With an empty path AD013_CONFIG is used, then ad013.yaml in the working
// directory or ./configs. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("ad013")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.baud", 0)
	v.SetDefault("serial.readTimeout", "200ms")

	v.SetDefault("sensor.deviceID", "FFFFFFFF")
	v.SetDefault("sensor.password", "00000000")
	v.SetDefault("sensor.retries", 5)
	v.SetDefault("sensor.minFrameSize", protocol.MinFrameSize)

	v.SetDefault("search.timeout", "5s")
	v.SetDefault("search.pollDelay", "120ms")
	v.SetDefault("search.processingDelay", "240ms")
	v.SetDefault("search.securityOfficerOnly", false)
	v.SetDefault("search.minScore", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9113")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("capture.record", "")
	v.SetDefault("capture.replay", "")
}

// Validate checks value ranges that the sensor options would otherwise
// silently ignore.
func (c *Config) Validate() error {
	if c.Serial.Baud < 0 {
		return fmt.Errorf("serial.baud: %d is negative", c.Serial.Baud)
	}
	if c.Sensor.Retries < 1 {
		return fmt.Errorf("sensor.retries: must be at least 1, got %d", c.Sensor.Retries)
	}
	if c.Sensor.MinFrameSize < protocol.MinFrameSize || c.Sensor.MinFrameSize > protocol.DefaultResponseBufferSize {
		return fmt.Errorf("sensor.minFrameSize: %d is outside %d-%d",
			c.Sensor.MinFrameSize, protocol.MinFrameSize, protocol.DefaultResponseBufferSize)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 0xFFFF {
		return fmt.Errorf("search.minScore: %d is outside 0-65535", c.Search.MinScore)
	}
	if _, err := decodeWord("sensor.deviceID", c.Sensor.DeviceID); err != nil {
		return err
	}
	if _, err := decodeWord("sensor.password", c.Sensor.Password); err != nil {
		return err
	}
	return nil
}

// SensorOptions converts the serial and sensor sections into sensor options.
// logger and metrics may be nil.
func (c *Config) SensorOptions(logger *zap.Logger, metrics *sensor.Metrics) ([]sensor.Option, error) {
	id, err := decodeWord("sensor.deviceID", c.Sensor.DeviceID)
	if err != nil {
		return nil, err
	}
	pw, err := decodeWord("sensor.password", c.Sensor.Password)
	if err != nil {
		return nil, err
	}

	return []sensor.Option{
		sensor.WithDeviceID(protocol.DeviceID(id)),
		sensor.WithPassword(protocol.Password(pw)),
		sensor.WithReadTimeout(c.Serial.ReadTimeout),
		sensor.WithRetries(c.Sensor.Retries),
		sensor.WithMinFrameSize(c.Sensor.MinFrameSize),
		sensor.WithLogger(logger),
		sensor.WithMetrics(metrics),
	}, nil
}

// SearchOptions converts the search section into SearchFinger options.
func (c *Config) SearchOptions() []sensor.SearchOption {
	return []sensor.SearchOption{
		sensor.WithSearchTimeout(c.Search.Timeout),
		sensor.WithPollDelay(c.Search.PollDelay),
		sensor.WithProcessingDelay(c.Search.ProcessingDelay),
		sensor.WithSecurityOfficerOnly(c.Search.SecurityOfficerOnly),
		sensor.WithMinScore(uint16(c.Search.MinScore)),
	}
}

func decodeWord(key, s string) ([4]byte, error) {
	var out [4]byte
	b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(s), "0x"))
	if err != nil {
		return out, fmt.Errorf("%s: %w", key, err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("%s: want %d bytes, got %d", key, len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}
