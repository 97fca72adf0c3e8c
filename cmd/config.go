package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"empi/internal/core/domain/services"
	"empi/internal/jobs"
	"empi/internal/pkg/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Notifier backends.
const (
	NotifierLog      = "log"
	NotifierKafka    = "kafka"
	NotifierRabbitMQ = "rabbitmq"
)

type Config struct {
	HTTPPort string `yaml:"httpPort"`

	DBHost     string `yaml:"dbHost"`
	DBPort     string `yaml:"dbPort"`
	DBUser     string `yaml:"dbUser"`
	DBPassword string `yaml:"dbPassword"`
	DBName     string `yaml:"dbName"`
	DBSslMode  string `yaml:"dbSslMode"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	LogOutput string `yaml:"logOutput"`

	JWTSecret            string        `yaml:"jwtSecret"`
	JWTIssuer            string        `yaml:"jwtIssuer"`
	SessionRevocationTTL time.Duration `yaml:"sessionRevocationTTL"`

	Notifier               string        `yaml:"notifier"`
	KafkaBrokers           []string      `yaml:"kafkaBrokers"`
	KafkaNotificationTopic string        `yaml:"kafkaNotificationTopic"`
	RabbitMQURL            string        `yaml:"rabbitmqURL"`
	RabbitMQExchange       string        `yaml:"rabbitmqExchange"`
	NotifyTimeout          time.Duration `yaml:"notifyTimeout"`
	NotifyMaxRetries       uint64        `yaml:"notifyMaxRetries"`

	EvidenceTimeout time.Duration `yaml:"evidenceTimeout"`

	VATTimezone           string        `yaml:"vatTimezone"`
	VATClosePolicy        string        `yaml:"vatClosePolicy"`
	VATRolloverSchedule   string        `yaml:"vatRolloverSchedule"`
	DeadlineWatchSchedule string        `yaml:"deadlineWatchSchedule"`
	// DeadlineWatchLookback skips deadlines older than this; zero reports
	// every unreported one.
	DeadlineWatchLookback time.Duration `yaml:"deadlineWatchLookback"`

	RegularAutoApprove bool  `yaml:"regularAutoApprove"`
	OrderNodeID        int64 `yaml:"orderNodeID"`
}

func DefaultConfig() Config {
	return Config{
		HTTPPort:               "8080",
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBUser:                 "postgres",
		DBName:                 "empi",
		DBSslMode:              "disable",
		LogLevel:               "info",
		LogFormat:              "json",
		LogOutput:              "stdout",
		JWTIssuer:              "empi",
		SessionRevocationTTL:   24 * time.Hour,
		Notifier:               NotifierLog,
		KafkaNotificationTopic: "empi.notifications",
		RabbitMQExchange:       "empi.notifications",
		NotifyTimeout:          5 * time.Second,
		NotifyMaxRetries:       3,
		EvidenceTimeout:        10 * time.Second,
		VATTimezone:            "Africa/Lagos",
		VATClosePolicy:         string(services.CloseBySubmitting),
		VATRolloverSchedule:    "5 0 * * *",
		DeadlineWatchSchedule:  "*/15 * * * *",
		DeadlineWatchLookback:  0,
		RegularAutoApprove:     true,
		OrderNodeID:            1,
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by CONFIG_FILE, then the environment. A .env file in the working
// directory is loaded into the environment first when present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.overlayEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() error {
	envString("HTTP_PORT", &c.HTTPPort)
	envString("DB_HOST", &c.DBHost)
	envString("DB_PORT", &c.DBPort)
	envString("DB_USER", &c.DBUser)
	envString("DB_PASSWORD", &c.DBPassword)
	envString("DB_NAME", &c.DBName)
	envString("DB_SSLMODE", &c.DBSslMode)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_FORMAT", &c.LogFormat)
	envString("LOG_OUTPUT", &c.LogOutput)
	envString("JWT_SECRET", &c.JWTSecret)
	envString("JWT_ISSUER", &c.JWTIssuer)
	envString("NOTIFIER", &c.Notifier)
	envList("KAFKA_BROKERS", &c.KafkaBrokers)
	envString("KAFKA_NOTIFICATION_TOPIC", &c.KafkaNotificationTopic)
	envString("RABBITMQ_URL", &c.RabbitMQURL)
	envString("RABBITMQ_EXCHANGE", &c.RabbitMQExchange)
	envString("VAT_TIMEZONE", &c.VATTimezone)
	envString("VAT_CLOSE_POLICY", &c.VATClosePolicy)
	envString("VAT_ROLLOVER_SCHEDULE", &c.VATRolloverSchedule)
	envString("DEADLINE_WATCH_SCHEDULE", &c.DeadlineWatchSchedule)

	return errors.Join(
		envDuration("SESSION_REVOCATION_TTL", &c.SessionRevocationTTL),
		envDuration("NOTIFY_TIMEOUT", &c.NotifyTimeout),
		envUint("NOTIFY_MAX_RETRIES", &c.NotifyMaxRetries),
		envDuration("EVIDENCE_TIMEOUT", &c.EvidenceTimeout),
		envDuration("DEADLINE_WATCH_LOOKBACK", &c.DeadlineWatchLookback),
		envBool("REGULAR_AUTO_APPROVE", &c.RegularAutoApprove),
		envInt("ORDER_NODE_ID", &c.OrderNodeID),
	)
}

func (c Config) validate() error {
	var errList []error
	required := map[string]string{
		"HTTP_PORT":  c.HTTPPort,
		"DB_HOST":    c.DBHost,
		"DB_USER":    c.DBUser,
		"DB_NAME":    c.DBName,
		"JWT_SECRET": c.JWTSecret,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			errList = append(errList, fmt.Errorf("%s is required", key))
		}
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaNotificationTopic == "" {
			errList = append(errList, errors.New("KAFKA_BROKERS and KAFKA_NOTIFICATION_TOPIC are required for the kafka notifier"))
		}
	case NotifierRabbitMQ:
		if c.RabbitMQURL == "" || c.RabbitMQExchange == "" {
			errList = append(errList, errors.New("RABBITMQ_URL and RABBITMQ_EXCHANGE are required for the rabbitmq notifier"))
		}
	default:
		errList = append(errList, fmt.Errorf("NOTIFIER %q is not one of log, kafka, rabbitmq", c.Notifier))
	}

	if _, err := time.LoadLocation(c.VATTimezone); err != nil {
		errList = append(errList, fmt.Errorf("VAT_TIMEZONE: %w", err))
	}
	if _, err := services.ParseClosePolicy(c.VATClosePolicy); err != nil {
		errList = append(errList, fmt.Errorf("VAT_CLOSE_POLICY: %w", err))
	}
	if err := jobs.ValidateSpec(c.VATRolloverSchedule); err != nil {
		errList = append(errList, fmt.Errorf("VAT_ROLLOVER_SCHEDULE: %w", err))
	}
	if err := jobs.ValidateSpec(c.DeadlineWatchSchedule); err != nil {
		errList = append(errList, fmt.Errorf("DEADLINE_WATCH_SCHEDULE: %w", err))
	}
	for key, d := range map[string]time.Duration{
		"SESSION_REVOCATION_TTL": c.SessionRevocationTTL,
		"NOTIFY_TIMEOUT":         c.NotifyTimeout,
		"EVIDENCE_TIMEOUT":       c.EvidenceTimeout,
	} {
		if d <= 0 {
			errList = append(errList, fmt.Errorf("%s must be positive", key))
		}
	}
	if c.DeadlineWatchLookback < 0 {
		errList = append(errList, errors.New("DEADLINE_WATCH_LOOKBACK must not be negative"))
	}
	// snowflake node ids are 10 bits
	if c.OrderNodeID < 0 || c.OrderNodeID > 1023 {
		errList = append(errList, fmt.Errorf("ORDER_NODE_ID %d is outside 0..1023", c.OrderNodeID))
	}

	return errors.Join(errList...)
}

// DSN is the postgres connection string. Sessions run in UTC.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Format = c.LogFormat
	cfg.Output = c.LogOutput
	return cfg
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.VATTimezone)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var list []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	*dst = list
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envInt(key string, dst *int64) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envUint(key string, dst *uint64) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
