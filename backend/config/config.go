package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML file layered between defaults and env.
const ConfigPathEnvVar = "CONFIG_PATH"

const defaultJWTSecret = "secret"

type Config struct {
	Env        string `koanf:"env"`
	ServerPort string `koanf:"server_port"`

	DBDriver   string `koanf:"db_driver"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBName     string `koanf:"db_name"`
	DBSSLMode  string `koanf:"db_sslmode"`
	SQLitePath string `koanf:"sqlite_path"`

	JWTSecret        string        `koanf:"jwt_secret"`
	JWTTTL           time.Duration `koanf:"jwt_ttl"`
	AllowAdminSignup bool          `koanf:"allow_admin_signup"`
	AdminEmail       string        `koanf:"admin_email"`
	AdminPassword    string        `koanf:"admin_password"`
	AdminName        string        `koanf:"admin_name"`

	UploadDir     string `koanf:"upload_dir"`
	MaxUploadSize int64  `koanf:"max_upload_size"`
	CORSOrigins   string `koanf:"cors_origins"`
}

// envKeys maps supported environment variables to config keys.
var envKeys = map[string]string{
	"APP_ENV":            "env",
	"SERVER_PORT":        "server_port",
	"PORT":               "server_port",
	"DB_DRIVER":          "db_driver",
	"DB_HOST":            "db_host",
	"DB_PORT":            "db_port",
	"DB_USER":            "db_user",
	"DB_PASSWORD":        "db_password",
	"DB_NAME":            "db_name",
	"DB_SSLMODE":         "db_sslmode",
	"SQLITE_PATH":        "sqlite_path",
	"JWT_SECRET":         "jwt_secret",
	"JWT_TTL":            "jwt_ttl",
	"ALLOW_ADMIN_SIGNUP": "allow_admin_signup",
	"ADMIN_EMAIL":        "admin_email",
	"ADMIN_PASSWORD":     "admin_password",
	"ADMIN_NAME":         "admin_name",
	"UPLOAD_DIR":         "upload_dir",
	"MAX_UPLOAD_SIZE":    "max_upload_size",
	"CORS_ORIGINS":       "cors_origins",
}

func Defaults() Config {
	return Config{
		Env:           "development",
		ServerPort:    "5000",
		DBDriver:      "postgres",
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "postgres",
		DBPassword:    "postgres",
		DBName:        "esiksha",
		DBSSLMode:     "disable",
		SQLitePath:    "esiksha.db",
		JWTSecret:     defaultJWTSecret,
		JWTTTL:        7 * 24 * time.Hour,
		AdminName:     "Administrator",
		UploadDir:     "./uploads",
		MaxUploadSize: 50 << 20,
		CORSOrigins:   "*",
	}
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := configFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envTransform(key string) string {
	return envKeys[key]
}

func configFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("max_upload_size must be positive")
	}
	if c.JWTTTL <= 0 {
		return errors.New("jwt_ttl must be positive")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("jwt_secret must be changed in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN builds the libpq connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
