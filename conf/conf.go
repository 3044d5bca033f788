package conf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Cfg struct {
	Port       int
	LogLevel   string
	CorsOrigin string
	Secret     string

	DbDriver string
	DbDsn    string

	JobMaxConcurrent int
	JobRetention     time.Duration
	JobCleanup       time.Duration
	JobResultBase    string

	RedisAddr     string
	RedisPassword string
	RedisDb       int
	RedisPrefix   string

	DataDisk string
}

var AppCfg = &Cfg{}

func init() {
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.corsorigin", "*")
	viper.SetDefault("auth.secret", "")
	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", "techhub.db")
	viper.SetDefault("job.maxconcurrent", 0)
	viper.SetDefault("job.retentionhours", 24)
	viper.SetDefault("job.cleanupminutes", 60)
	viper.SetDefault("job.resultbase", "/api/v1/jobs/")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.prefix", "jobs")
	viper.SetDefault("sys.disk", "/")
}

func getConfInt(key, envKey string) int {
	val := os.Getenv(envKey)
	if val == "" {
		return viper.GetInt(key)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		log.Errorf("[getConfInt] Error parsing env variable '%s': %v", envKey, err)
		return viper.GetInt(key)
	}

	return n
}

func getConfString(key, envKey string) string {
	val := os.Getenv(envKey)
	if val == "" {
		val = viper.GetString(key)
	}
	return val
}

// Read loads conf/app.yml if present and applies environment overrides.
// Every key has a default, so a missing file is not an error.
func Read() error {
	viper.SetConfigName("conf/app") // name of config file (without extension)
	viper.AddConfigPath("./")       // path to look for the config file in
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Warnln("[Config] No config file found, using defaults")
	}

	AppCfg.Port = getConfInt("server.port", "PORT")
	AppCfg.LogLevel = getConfString("log.level", "LOG_LEVEL")
	AppCfg.CorsOrigin = getConfString("server.corsorigin", "CORS_ORIGIN")
	AppCfg.Secret = getConfString("auth.secret", "SECRET")

	AppCfg.DbDriver = getConfString("db.driver", "DB_DRIVER")
	AppCfg.DbDsn = getConfString("db.dsn", "DB_DSN")

	AppCfg.JobMaxConcurrent = getConfInt("job.maxconcurrent", "JOB_MAX_CONCURRENT")
	AppCfg.JobRetention = time.Duration(getConfInt("job.retentionhours", "JOB_RETENTION_HOURS")) * time.Hour
	AppCfg.JobCleanup = time.Duration(getConfInt("job.cleanupminutes", "JOB_CLEANUP_MINUTES")) * time.Minute
	AppCfg.JobResultBase = getConfString("job.resultbase", "JOB_RESULT_BASE")

	AppCfg.RedisAddr = getConfString("redis.addr", "REDIS_ADDR")
	AppCfg.RedisPassword = getConfString("redis.password", "REDIS_PASSWORD")
	AppCfg.RedisDb = getConfInt("redis.db", "REDIS_DB")
	AppCfg.RedisPrefix = getConfString("redis.prefix", "REDIS_PREFIX")

	AppCfg.DataDisk = getConfString("sys.disk", "DATA_DISK")

	return AppCfg.validate()
}

func (cfg *Cfg) validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch cfg.DbDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.DbDriver)
	}
	if cfg.JobMaxConcurrent < 0 {
		return fmt.Errorf("job.maxconcurrent must not be negative: %d", cfg.JobMaxConcurrent)
	}
	if cfg.JobRetention <= 0 || cfg.JobCleanup <= 0 {
		return errors.New("job retention and cleanup interval must be positive")
	}
	return nil
}
