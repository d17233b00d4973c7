package initializers

import (
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// AppConfig is loaded from defaults, an optional config.yaml and the environment, in that order.
type AppConfig struct {
	Port        string   `default:"8080" env:"PORT" yaml:"port"`
	Env         string   `default:"production" env:"APP_ENV" yaml:"env"`
	DatabaseURL string   `env:"DATABASE_URL" yaml:"database_url"`
	RedisURL    string   `env:"REDIS_URL" yaml:"redis_url"`
	FrontendURL string   `default:"http://localhost:5173" env:"FRONTEND_URL" yaml:"frontend_url"`
	CORSOrigins []string `default:"http://localhost:5173" env:"CORS_ORIGINS" yaml:"cors_origins"`

	AccessTokenSecret  string        `env:"SECRET_KEY_ACCESS_TOKEN" yaml:"access_token_secret"`
	RefreshTokenSecret string        `env:"SECRET_KEY_REFRESH_TOKEN" yaml:"refresh_token_secret"`
	AccessTokenTTL     time.Duration `default:"5h" env:"ACCESS_TOKEN_TTL" yaml:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `default:"168h" env:"REFRESH_TOKEN_TTL" yaml:"refresh_token_ttl"`

	StripeSecretKey     string        `env:"STRIPE_SECRET_KEY" yaml:"stripe_secret_key"`
	StripeWebhookSecret string        `env:"STRIPE_ENDPOINT_WEBHOOK_SECRET_KEY" yaml:"stripe_webhook_secret"`
	StripeAPIURL        string        `default:"https://api.stripe.com" env:"STRIPE_API_URL" yaml:"stripe_api_url"`
	StripeTimeout       time.Duration `default:"30s" env:"STRIPE_TIMEOUT" yaml:"stripe_timeout"`
	Currency            string        `default:"inr" env:"CURRENCY" yaml:"currency"`

	AWSBucket string `default:"grocery-assets" env:"AWS_BUCKET" yaml:"aws_bucket"`

	SMTPAddress       string `env:"SMTP_ADDRESS" yaml:"smtp_address"`
	SMTPHost          string `env:"FROM_EMAIL_SMTP" yaml:"smtp_host"`
	FromEmail         string `env:"FROM_EMAIL" yaml:"from_email"`
	FromEmailPassword string `env:"FROM_EMAIL_PASSWORD" yaml:"from_email_password"`
}

// Config is the loaded configuration. LoadConfig must run before anything reads it.
var Config = &AppConfig{}

func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func LoadEnv() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
}

func LoadConfig() error {
	var cfg AppConfig
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		AllowUnknownEnvs:   true,
		AllowUnknownFields: true,
		Files:              []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database URL is required: set DATABASE_URL")
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return errors.New("token secrets are required: set SECRET_KEY_ACCESS_TOKEN and SECRET_KEY_REFRESH_TOKEN")
	}
	Config = &cfg
	return nil
}
