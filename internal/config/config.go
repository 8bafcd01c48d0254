package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envAppEnv                = "APP_ENV"
	envLogLevel              = "LOG_LEVEL"
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envServerBodyLimit       = "SERVER_BODY_LIMIT"
	envStorageDriver         = "STORAGE_DRIVER"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envSessionTTL            = "SESSION_TTL"
	envSessionCookieName     = "SESSION_COOKIE_NAME"
	envSessionCacheTTL       = "SESSION_CACHE_TTL"
	envArchiveBucket         = "ARCHIVE_BUCKET"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envSeedOnStartup         = "SEED_ON_STARTUP"
	envMaxSignatureBytes     = "MAX_SIGNATURE_BYTES"
	envBcryptCost            = "BCRYPT_COST"
	envEnableProfiling       = "ENABLE_PROFILING"
)

const (
	defaultAppEnv              = "development"
	defaultLogLevel            = "info"
	defaultServerPort          = "5000"
	defaultServerReadTimeout   = 10 * time.Second
	defaultServerWriteTimeout  = 10 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultServerBodyLimit     = "2M"
	defaultStorageDriver       = StorageDriverPostgres
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "proposals"
	defaultDBUser              = "proposals_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 10
	defaultDBMinConns          = 2
	defaultSessionTTL          = 7 * 24 * time.Hour
	defaultSessionCookieName   = "noviq_session"
	defaultSessionCacheTTL     = time.Minute
	defaultAWSRegion           = "us-east-1"
	defaultMaxSignatureBytes   = 1 << 20
	defaultBcryptCost          = 12
	productionAppEnv           = "production"
	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set when STORAGE_DRIVER is postgres"
	errStorageDriverFmt        = "STORAGE_DRIVER must be one of postgres, memory (got %q)"
	errSessionTTLFmt           = "SESSION_TTL must be positive"
	errArchiveCredentialsFmt   = "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set when ARCHIVE_BUCKET is set"
	errMaxSignatureBytesFmt    = "MAX_SIGNATURE_BYTES must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errMalformedEnvFmt         = "%s has malformed value %q"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Session  SessionConfig
	Archive  ArchiveConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type StorageConfig struct {
	Driver string
}

type SessionConfig struct {
	TTL          time.Duration
	CookieName   string
	CacheTTL     time.Duration
	SecureCookie bool
}

// ArchiveConfig configures the signed-agreement archive. An empty Bucket
// disables archiving.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type AppConfig struct {
	Env               string
	LogLevel          string
	SeedOnStartup     bool
	MaxSignatureBytes int
	BcryptCost        int
	EnableProfiling   bool
}

func Load() (*Config, error) {
	env := &envReader{}
	appEnv := env.str(envAppEnv, defaultAppEnv)

	cfg := &Config{
		Server: ServerConfig{
			Port:            env.str(envPort, defaultServerPort),
			ReadTimeout:     env.duration(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    env.duration(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: env.duration(envServerShutdownTimeout, defaultServerShutdown),
			BodyLimit:       env.str(envServerBodyLimit, defaultServerBodyLimit),
		},
		Database: DatabaseConfig{
			Host:     env.str(envDBHost, defaultDBHost),
			Port:     env.integer(envDBPort, defaultDBPort),
			Database: env.str(envDBName, defaultDBName),
			User:     env.str(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  env.str(envDBSSLMode, defaultDBSSLMode),
			MaxConns: env.integer(envDBMaxConns, defaultDBMaxConns),
			MinConns: env.integer(envDBMinConns, defaultDBMinConns),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(env.str(envStorageDriver, defaultStorageDriver)),
		},
		Session: SessionConfig{
			TTL:          env.duration(envSessionTTL, defaultSessionTTL),
			CookieName:   env.str(envSessionCookieName, defaultSessionCookieName),
			CacheTTL:     env.duration(envSessionCacheTTL, defaultSessionCacheTTL),
			SecureCookie: appEnv == productionAppEnv,
		},
		Archive: ArchiveConfig{
			Bucket:          os.Getenv(envArchiveBucket),
			Region:          env.str(envAWSRegion, defaultAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
		},
		App: AppConfig{
			Env:               appEnv,
			LogLevel:          env.str(envLogLevel, defaultLogLevel),
			SeedOnStartup:     env.boolean(envSeedOnStartup, true),
			MaxSignatureBytes: env.integer(envMaxSignatureBytes, defaultMaxSignatureBytes),
			BcryptCost:        env.integer(envBcryptCost, defaultBcryptCost),
			EnableProfiling:   env.boolean(envEnableProfiling, false),
		},
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf(errDBPasswordRequiredFmt)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf(errStorageDriverFmt, c.Storage.Driver)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf(errSessionTTLFmt)
	}

	if c.Archive.Enabled() && (c.Archive.AccessKeyID == "" || c.Archive.SecretAccessKey == "") {
		return fmt.Errorf(errArchiveCredentialsFmt)
	}

	if c.App.MaxSignatureBytes <= 0 {
		return fmt.Errorf(errMaxSignatureBytesFmt)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == productionAppEnv
}

func (c *ArchiveConfig) Enabled() bool {
	return c.Bucket != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// envReader reads typed variables, falling back to a default when unset.
// Malformed values are collected instead of silently replaced.
type envReader struct {
	errs []error
}

func (r *envReader) str(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func (r *envReader) integer(key string, fallback int) int {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf(errMalformedEnvFmt, key, raw))
		return fallback
	}
	return n
}

func (r *envReader) boolean(key string, fallback bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf(errMalformedEnvFmt, key, raw))
		return fallback
	}
	return b
}

// duration accepts Go duration syntax or a bare number of minutes.
func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if minutes, err := strconv.Atoi(raw); err == nil {
		return time.Duration(minutes) * time.Minute
	}
	r.errs = append(r.errs, fmt.Errorf(errMalformedEnvFmt, key, raw))
	return fallback
}
