package config

import (
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Limits protect the database from bursts.
type Limits struct {
	RPS               float64
	Burst             int
	PerIPRPS          float64 `mapstructure:"per_ip_rps"`
	PerIPBurst        int     `mapstructure:"per_ip_burst"`
	MaxConcurrency    int64
	MaxBodyBytes      int64
	RequestTimeoutSec int
}

type Tracing struct {
	Enabled     bool
	Exporter    string // stdout | otlp
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	ServiceName string
}

// AdminBootstrap seeds one administrator identity when the admin server starts.
type AdminBootstrap struct {
	Username string
	Email    string
	Password string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Limits    Limits
	Tracing   Tracing
	Bootstrap AdminBootstrap
}

// Load reads the config or exits the process.
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	return c
}

// Read parses the YAML file at path (CONFIG_PATH or ./configs/config.local.yaml when
// empty). APP_ prefixed env vars override keys, e.g. APP_JWT_SECRET.
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if c.JWT.Secret == "" {
		return nil, errors.New("jwt.secret must be set")
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "market-backend")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "market-backend")
	v.SetDefault("jwt.accesstokenttlmin", 24*60)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.maxconcurrency", 300)
	v.SetDefault("limits.maxbodybytes", 16<<20)
	v.SetDefault("limits.requesttimeoutsec", 10)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.sampleratio", 1.0)
}
