package configs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Conf struct {
	AppName         string        `mapstructure:"APP_NAME"`
	AppVersion      string        `mapstructure:"APP_VERSION"`
	Environment     string        `mapstructure:"ENVIRONMENT"`
	WebServerPort   string        `mapstructure:"WEB_SERVER_PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	DeploymentTime  string        `mapstructure:"DEPLOYMENT_TIME"`
	AllowedOrigins  []string      `mapstructure:"ALLOWED_ORIGINS"`
	CSPExtraOrigins []string      `mapstructure:"CSP_EXTRA_ORIGINS"`
	OTLPEndpoint    string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MaxBodyBytes    int64         `mapstructure:"MAX_BODY_BYTES"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RateLimitAPI    int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitMutate int           `mapstructure:"RATE_LIMIT_MUTATIONS"`
	CollapseUnmatch bool          `mapstructure:"METRICS_COLLAPSE_UNMATCHED"`
	TrustProxy      bool          `mapstructure:"TRUST_PROXY_HEADERS"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "gotodo")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("WEB_SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEPLOYMENT_TIME", time.Now().UTC().Format(time.RFC3339))
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:8080"})
	v.SetDefault("CSP_EXTRA_ORIGINS", []string{})
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("MAX_BODY_BYTES", 10*1024)
	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_MUTATIONS", 20)
	v.SetDefault("METRICS_COLLAPSE_UNMATCHED", false)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", 15*time.Second)
}

// LoadConfig reads an optional .env file from path, then the process environment.
func LoadConfig(path string) (*Conf, error) {
	var cfg *Conf

	v := viper.New()
	defaults(v)
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Conf) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Conf) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.WebServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("WEB_SERVER_PORT must be a port number, got %q", c.WebServerPort))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitAPI <= 0 || c.RateLimitMutate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_MUTATIONS must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}
