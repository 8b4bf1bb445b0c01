package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
)

type (
	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		Seed         bool // load the demo cohort into the memory store on start
		RollbarToken string
		WorkDir      string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine       string
		Host         string
		Port         int
		Name         string
		User         string
		Password     string
		DisableTLS   bool
		MaxOpenConns int
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

// NewConfig reads the configuration from the environment, optionally seeded by config/.env.<env>.
// Keys are read as <ENV>_<KEY>, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "Loop")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("seed", env == "DEV" || env == "TEST")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("database.engine", EngineMemory)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "loop")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.maxOpenConns", 10)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Seed:         v.GetBool("seed"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:       strings.ToLower(v.GetString("database.engine")),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			Name:         v.GetString("database.name"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DisableTLS:   v.GetBool("database.disableTLS"),
			MaxOpenConns: v.GetInt("database.maxOpenConns"),
		},
	}
}
