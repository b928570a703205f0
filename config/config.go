package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TRAINTICKET"

type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	GRPC        GRPCConfig        `yaml:"grpc"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Upstreams   UpstreamsConfig   `yaml:"upstreams"`
	Reservation ReservationConfig `yaml:"reservation"`
	Auth        AuthConfig        `yaml:"auth"`
	Worker      WorkerConfig      `yaml:"worker"`
	Tracing     TracingConfig     `yaml:"tracing"`
	TLS         TLSConfig         `yaml:"tls"`
}

type HTTPConfig struct {
	Address    string `yaml:"address" split_words:"true"`
	SwaggerDir string `yaml:"swagger_dir" split_words:"true"`
}

type GRPCConfig struct {
	Address string `yaml:"address" split_words:"true"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`
	User     string `yaml:"user" split_words:"true"`
	Password string `yaml:"password" split_words:"true"`
	Name     string `yaml:"name" split_words:"true"`
	SSLMode  string `yaml:"ssl_mode" split_words:"true"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the DSN in URL form, as expected by the migration driver.
func (d DatabaseConfig) URL(scheme string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s?sslmode=%s", scheme, d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr            string `yaml:"addr" split_words:"true"`
	Password        string `yaml:"password" split_words:"true"`
	DB              int    `yaml:"db" split_words:"true"`
	StateTTLMinutes int    `yaml:"state_ttl_minutes" split_words:"true"`
}

func (r RedisConfig) StateTTL() time.Duration {
	return time.Duration(r.StateTTLMinutes) * time.Minute
}

type KafkaConfig struct {
	Brokers                []string `yaml:"brokers" split_words:"true"`
	ReservationEventsTopic string   `yaml:"reservation_events_topic" split_words:"true"`
	SeatReleaseTopic       string   `yaml:"seat_release_topic" split_words:"true"`
	GroupID                string   `yaml:"group_id" split_words:"true"`
}

// UpstreamsConfig holds the base URL of every collaborator the saga calls.
type UpstreamsConfig struct {
	Security     string `yaml:"security" split_words:"true"`
	Contacts     string `yaml:"contacts" split_words:"true"`
	Travel       string `yaml:"travel" split_words:"true"`
	Station      string `yaml:"station" split_words:"true"`
	Seat         string `yaml:"seat" split_words:"true"`
	Order        string `yaml:"order" split_words:"true"`
	Assurance    string `yaml:"assurance" split_words:"true"`
	Food         string `yaml:"food" split_words:"true"`
	Consign      string `yaml:"consign" split_words:"true"`
	User         string `yaml:"user" split_words:"true"`
	Notification string `yaml:"notification" split_words:"true"`
}

type ReservationConfig struct {
	StepTimeoutMS         int `yaml:"step_timeout_ms" split_words:"true"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" split_words:"true"`
	CompensationTimeoutMS int `yaml:"compensation_timeout_ms" split_words:"true"`
	NotificationTimeoutMS int `yaml:"notification_timeout_ms" split_words:"true"`
}

func (r ReservationConfig) StepTimeout() time.Duration {
	return time.Duration(r.StepTimeoutMS) * time.Millisecond
}

func (r ReservationConfig) RequestTimeout() time.Duration {
	return time.Duration(r.RequestTimeoutSeconds) * time.Second
}

func (r ReservationConfig) CompensationTimeout() time.Duration {
	return time.Duration(r.CompensationTimeoutMS) * time.Millisecond
}

func (r ReservationConfig) NotificationTimeout() time.Duration {
	return time.Duration(r.NotificationTimeoutMS) * time.Millisecond
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" split_words:"true"`
}

type WorkerConfig struct {
	ReleaseSweepSeconds int `yaml:"release_sweep_seconds" split_words:"true"`
	ReleaseBatchSize    int `yaml:"release_batch_size" split_words:"true"`
	ReleaseLeaseSeconds int `yaml:"release_lease_seconds" split_words:"true"`
	ReleaseMaxAttempts  int `yaml:"release_max_attempts" split_words:"true"`
}

func (w WorkerConfig) ReleaseLease() time.Duration {
	return time.Duration(w.ReleaseLeaseSeconds) * time.Second
}

type TracingConfig struct {
	ServiceName string `yaml:"service_name" split_words:"true"`
	Endpoint    string `yaml:"endpoint" split_words:"true"`
}

// TLSConfig enables SPIFFE mTLS on outbound calls when SVIDCert is set.
type TLSConfig struct {
	SVIDCert    string `yaml:"svid_cert" split_words:"true"`
	SVIDKey     string `yaml:"svid_key" split_words:"true"`
	Bundle      string `yaml:"bundle" split_words:"true"`
	TrustDomain string `yaml:"trust_domain" split_words:"true"`
}

func (t TLSConfig) Enabled() bool {
	return t.SVIDCert != ""
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return cfg, nil
}

// Default returns the values used for anything the config file leaves out.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":14568"},
		GRPC: GRPCConfig{Address: ":14569"},
		Redis: RedisConfig{
			StateTTLMinutes: 60,
		},
		Kafka: KafkaConfig{
			ReservationEventsTopic: "reservation_events",
			SeatReleaseTopic:       "seat_release_requests",
			GroupID:                "preserve-worker",
		},
		Reservation: ReservationConfig{
			StepTimeoutMS:         3000,
			RequestTimeoutSeconds: 30,
			CompensationTimeoutMS: 5000,
			NotificationTimeoutMS: 5000,
		},
		Worker: WorkerConfig{
			ReleaseSweepSeconds: 30,
			ReleaseBatchSize:    50,
			ReleaseLeaseSeconds: 60,
			ReleaseMaxAttempts:  10,
		},
		Tracing: TracingConfig{ServiceName: "ts-preserve-service"},
	}
}
