package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Report   ReportConfig
	Policy   PolicyConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"PORT"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" envconfig:"TIMEOUT_SECONDS"`
	RateLimit      int `mapstructure:"rate_limit" envconfig:"RATE_LIMIT"`
	RateBurst      int `mapstructure:"rate_burst" envconfig:"RATE_BURST"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	User     string `mapstructure:"user" envconfig:"SMTP_USER"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type ReportConfig struct {
	LogoURL   string `mapstructure:"logo_url" envconfig:"REPORT_LOGO_URL"`
	LocaleDir string `mapstructure:"locale_dir" envconfig:"REPORT_LOCALE_DIR"`
}

// PolicyConfig holds the behaviors the source system is inconsistent
// about; they are explicit switches here instead of hardcoded either way.
type PolicyConfig struct {
	// StrictFields rejects unowned or unknown fields in partial updates
	// instead of silently dropping them.
	StrictFields bool `mapstructure:"strict_fields" envconfig:"POLICY_STRICT_FIELDS"`
	// RequirePaymentForReport gates PDF rendering on payment confirmation.
	RequirePaymentForReport bool `mapstructure:"require_payment_for_report" envconfig:"POLICY_REQUIRE_PAYMENT_FOR_REPORT"`
	// DoctorEditsPatientFields additionally grants doctors the
	// patient-authored fields (symptoms, history, medication, documents, notes).
	DoctorEditsPatientFields bool `mapstructure:"doctor_edits_patient_fields" envconfig:"POLICY_DOCTOR_EDITS_PATIENT_FIELDS"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"CORS_ALLOWED_ORIGINS"`
}

// setDefaults seeds every default into viper, so a value resolves as
// default < config file < environment. Defaults must not live on the
// envconfig tags: envconfig applies a tag default whenever the env var
// is unset, which would overwrite whatever the file loaded.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeoutSeconds", 30)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_burst", 200)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "consult")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("policy.strict_fields", true)
	v.SetDefault("policy.require_payment_for_report", true)
	v.SetDefault("policy.doctor_edits_patient_fields", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// LoadConfig reads the YAML file when present and lets environment
// variables override every key.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("consult", &config); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	return &config, nil
}
