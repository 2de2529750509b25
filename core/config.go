package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName         string
		Env             string // DEV (local; default), TEST, QA, PROD
		Build           string
		Debug           bool
		TestMode        bool
		SecretKey       string
		FrontendBaseURL string
		RollbarToken    string

		Server    ServerConfig
		Database  DatabaseConfig
		Email     EmailConfig
		Redis     RedisConfig
		Assistant AssistantConfig
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		DebugHost                 string
		ReadTimeout               time.Duration
		WriteTimeout              time.Duration
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		PasswordResetTimeoutDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		InMemory      bool
	}

	EmailConfig struct {
		DefaultFromName  string
		DefaultFromEmail string
		SendgridApiKey   string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	AssistantConfig struct {
		APIKey         string
		Model          string
		RateWindow     time.Duration
		MarketTipTTL   time.Duration
		RequestTimeout time.Duration
	}
)

// Address returns the API listening address.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Address returns the "host:port" of the database server.
func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Email.DefaultFromName, Address: c.Email.DefaultFromEmail}
}

// NewConfig loads the configuration from the environment.
// Variables are prefixed by the current ENV, eg. `DEV_SERVER_PORT=8000`.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "StartSmart Property")
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("frontendBaseURL", "http://localhost:5173")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "")
	conf.SetDefault("server.port", 8000)
	conf.SetDefault("server.debugHost", "localhost:4000")
	conf.SetDefault("server.readTimeout", 15*time.Second)
	conf.SetDefault("server.writeTimeout", 60*time.Second)
	conf.SetDefault("server.shutdownTimeout", 10*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 30*24*time.Hour)
	conf.SetDefault("server.passwordResetTimeoutDelta", 3*24*time.Hour)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.name", "startsmart")
	conf.SetDefault("database.user", "startsmart")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "postgres")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)
	conf.SetDefault("database.inMemory", false)

	conf.SetDefault("email.defaultFromName", "StartSmart Property")
	conf.SetDefault("email.defaultFromEmail", "noreply@localhost")
	conf.SetDefault("email.sendgridApiKey", "")

	conf.SetDefault("redis.addr", "")
	conf.SetDefault("redis.password", "")
	conf.SetDefault("redis.db", 0)

	conf.SetDefault("assistant.apiKey", "")
	conf.SetDefault("assistant.model", "gemini-3-flash-preview")
	conf.SetDefault("assistant.rateWindow", 5*time.Second)
	conf.SetDefault("assistant.marketTipTTL", 6*time.Hour)
	conf.SetDefault("assistant.requestTimeout", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:         conf.GetString("appName"),
		Env:             env,
		Build:           conf.GetString("build"),
		Debug:           conf.GetBool("debug"),
		TestMode:        conf.GetBool("testMode"),
		SecretKey:       conf.GetString("secretKey"),
		FrontendBaseURL: conf.GetString("frontendBaseURL"),
		RollbarToken:    conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			Port:                      conf.GetInt("server.port"),
			DebugHost:                 conf.GetString("server.debugHost"),
			ReadTimeout:               conf.GetDuration("server.readTimeout"),
			WriteTimeout:              conf.GetDuration("server.writeTimeout"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
			PasswordResetTimeoutDelta: conf.GetDuration("server.passwordResetTimeoutDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
			InMemory:      conf.GetBool("database.inMemory"),
		},
		Email: EmailConfig{
			DefaultFromName:  conf.GetString("email.defaultFromName"),
			DefaultFromEmail: conf.GetString("email.defaultFromEmail"),
			SendgridApiKey:   conf.GetString("email.sendgridApiKey"),
		},
		Redis: RedisConfig{
			Addr:     conf.GetString("redis.addr"),
			Password: conf.GetString("redis.password"),
			DB:       conf.GetInt("redis.db"),
		},
		Assistant: AssistantConfig{
			APIKey:         conf.GetString("assistant.apiKey"),
			Model:          conf.GetString("assistant.model"),
			RateWindow:     conf.GetDuration("assistant.rateWindow"),
			MarketTipTTL:   conf.GetDuration("assistant.marketTipTTL"),
			RequestTimeout: conf.GetDuration("assistant.requestTimeout"),
		},
	}
}

// NewTestConfig returns a configuration suitable for tests: no external services and short token lifetimes.
func NewTestConfig() *Config {
	return &Config{
		AppName:         "StartSmart Property",
		Env:             "TEST",
		Build:           "test",
		TestMode:        true,
		SecretKey:       "secret",
		FrontendBaseURL: "http://localhost:5173",
		Server: ServerConfig{
			Port:                      8000,
			ReadTimeout:               5 * time.Second,
			WriteTimeout:              5 * time.Second,
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
		Database: DatabaseConfig{InMemory: true},
		Email: EmailConfig{
			DefaultFromName:  "StartSmart Property",
			DefaultFromEmail: "noreply@localhost",
		},
		Assistant: AssistantConfig{
			Model:          "test-model",
			RateWindow:     5 * time.Second,
			MarketTipTTL:   6 * time.Hour,
			RequestTimeout: 5 * time.Second,
		},
	}
}
