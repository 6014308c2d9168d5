package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevSecretKey is only meant for local development. Running with it logs a warning at startup.
const DevSecretKey = "your_secret_key"

type (
	ServerConfig struct {
		Address            string
		DebugHost          string
		StaticDir          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		SecureCookies      bool
	}

	DatabaseConfig struct {
		Engine       string // json | bolt
		Path         string
		LockAttempts int
		LockBackoff  time.Duration
	}

	MCQConfig struct {
		HideAnswers bool
	}

	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		SecretKey        string
		RollbarToken     string
		SendgridAPIKey   string
		DefaultFromEmail string
		ContactRecipient string
		Server           ServerConfig
		Database         DatabaseConfig
		MCQ              MCQConfig
	}
)

// NewConfig reads the configuration from the environment, optionally primed by `config/.env.<env>`.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("appName", "CourseDesk")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("secretKey", DevSecretKey)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("contactRecipient", "")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.debugHost", "")
	v.SetDefault("server.staticDir", "public")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", time.Hour)
	v.SetDefault("server.secureCookies", false)
	v.SetDefault("database.engine", "json")
	v.SetDefault("database.path", filepath.Join("db", "db.json"))
	v.SetDefault("database.lockAttempts", 5)
	v.SetDefault("database.lockBackoff", 100*time.Millisecond)
	v.SetDefault("mcq.hideAnswers", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()
	_ = v.BindEnv("secretKey", "JWT_SECRET") // <ENV>_SECRETKEY takes precedence

	return &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		ContactRecipient: v.GetString("contactRecipient"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			StaticDir:          v.GetString("server.staticDir"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			SecureCookies:      v.GetBool("server.secureCookies"),
		},
		Database: DatabaseConfig{
			Engine:       strings.ToLower(v.GetString("database.engine")),
			Path:         v.GetString("database.path"),
			LockAttempts: v.GetInt("database.lockAttempts"),
			LockBackoff:  v.GetDuration("database.lockBackoff"),
		},
		MCQ: MCQConfig{
			HideAnswers: v.GetBool("mcq.hideAnswers"),
		},
	}
}

// UsesDevSecret reports whether credentials are signed with the insecure development secret.
func (c *Config) UsesDevSecret() bool {
	return c.SecretKey == "" || c.SecretKey == DevSecretKey
}
