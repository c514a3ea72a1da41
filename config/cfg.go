package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	httpapi "github.com/peepeep/peepeep-manager/internal/api/http"
	"github.com/peepeep/peepeep-manager/internal/apisrv/provider"
	"github.com/peepeep/peepeep-manager/internal/apisrv/waitlist"
	"github.com/peepeep/peepeep-manager/internal/bucket"
	"github.com/peepeep/peepeep-manager/internal/mail"
	"github.com/peepeep/peepeep-manager/internal/store"
	"github.com/peepeep/peepeep-manager/log"
)

// Config represents the global configuration for the service.
type Config struct {
	DB       store.Config    `mapstructure:"mysql"`
	Logger   log.Config      `mapstructure:"logger"`
	HTTP     httpapi.Config  `mapstructure:"http"`
	Bucket   bucket.Config   `mapstructure:"bucket"`
	Mailer   mail.Config     `mapstructure:"mailer"`
	Waitlist waitlist.Config `mapstructure:"waitlist"`
	Provider provider.Config `mapstructure:"provider"`
}

// LoadConfig loads the configuration from a file and/or environment
// variables. Environment variables take precedence over config file
// values. Nested config keys use double underscore, e.g. MYSQL__DSN for
// mysql.dsn.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))

	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/peepeep-manager")
		viper.AddConfigPath("/etc/peepeep-manager")
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// build the DSN from individual env vars when it was not given
	// directly, which is how managed database bindings expose it
	if config.DB.DSN == "" {
		host := os.Getenv("MYSQL_HOST")
		port := os.Getenv("MYSQL_PORT")
		user := os.Getenv("MYSQL_USER")
		password := os.Getenv("MYSQL_PASSWORD")
		database := os.Getenv("MYSQL_DATABASE")

		if host != "" {
			if port == "" {
				port = "3306"
			}
			if user != "" && password != "" && database != "" {
				config.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8&parseTime=true&tls=custom",
					user, password, host, port, database)
			}
		}
	}

	return &config, nil
}

// bindEnvVars binds environment variables to config keys so both nested
// keys (MYSQL__DSN) and flat keys (MYSQL_DSN) work.
func bindEnvVars() {
	// MySQL
	viper.BindEnv("mysql.dsn", "MYSQL_DSN")
	viper.BindEnv("mysql.automigrate", "MYSQL_AUTOMIGRATE")
	viper.BindEnv("mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	viper.BindEnv("mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")
	viper.BindEnv("mysql.tls_ca_path", "MYSQL_TLS_CA_PATH")

	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Bucket
	viper.BindEnv("bucket.s3AccessKey", "BUCKET_S3_ACCESS_KEY")
	viper.BindEnv("bucket.s3SecretAccessKey", "BUCKET_S3_SECRET_ACCESS_KEY")
	viper.BindEnv("bucket.s3Endpoint", "BUCKET_S3_ENDPOINT")
	viper.BindEnv("bucket.s3BucketName", "BUCKET_S3_BUCKET_NAME")
	viper.BindEnv("bucket.s3BucketLocation", "BUCKET_S3_BUCKET_LOCATION")
	viper.BindEnv("bucket.baseFolder", "BUCKET_BASE_FOLDER")

	// Mailer
	viper.BindEnv("mailer.sendgrid_api_key", "MAILER_SENDGRID_API_KEY")
	viper.BindEnv("mailer.from_email", "MAILER_FROM_EMAIL")
	viper.BindEnv("mailer.from_email_name", "MAILER_FROM_EMAIL_NAME")
	viper.BindEnv("mailer.reply_to", "MAILER_REPLY_TO")
	viper.BindEnv("mailer.worker_interval", "MAILER_WORKER_INTERVAL")

	// Waitlist
	viper.BindEnv("waitlist.public_url", "WAITLIST_PUBLIC_URL")
	viper.BindEnv("waitlist.referral_boost", "WAITLIST_REFERRAL_BOOST")

	// Provider
	viper.BindEnv("provider.public_url", "PROVIDER_PUBLIC_URL")
	viper.BindEnv("provider.jwtSecret", "PROVIDER_JWT_SECRET")
	viper.BindEnv("provider.jwtttl", "PROVIDER_JWT_TTL")
	viper.BindEnv("provider.passwordHasherSaltSize", "PROVIDER_PASSWORD_HASHER_SALT_SIZE")
	viper.BindEnv("provider.passwordHasherIterations", "PROVIDER_PASSWORD_HASHER_ITERATIONS")
	viper.BindEnv("provider.googleClientId", "PROVIDER_GOOGLE_CLIENT_ID")
	viper.BindEnv("provider.verification_ttl", "PROVIDER_VERIFICATION_TTL")
}
