package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Log        Log
	Gemini     Gemini
	Assessment Assessment
	RateLimit  RateLimit
	CORS       CORS
}

type Server struct {
	Port string
}

type Database struct {
	Driver       string // postgres | sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string // sqlite file, ":memory:" allowed
	MaxOpenConns int
	MaxIdleConns int
}

type Log struct {
	Level  string
	Pretty bool
}

type Gemini struct {
	APIKey string
	Model  string
}

// Assessment holds the knobs of the attempt pipeline.
type Assessment struct {
	MaxBankSize     int
	MaxPresented    int
	SelectionSecret string
	MaxWarnings     int
}

type RateLimit struct {
	RequestsPerMinute int
	Burst             int
	IdleTTL           time.Duration
}

type CORS struct {
	AllowOrigins []string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_PATH", "assessment_engine.db")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", true)
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("ASSESSMENT_MAX_BANK_SIZE", 150)
	viper.SetDefault("ASSESSMENT_MAX_PRESENTED", 100)
	viper.SetDefault("ASSESSMENT_MAX_WARNINGS", 3)
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_MS", 60000)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.Path = viper.GetString("DATABASE_PATH")
	config.Database.MaxOpenConns = viper.GetInt("DATABASE_MAX_OPEN_CONNS")
	config.Database.MaxIdleConns = viper.GetInt("DATABASE_MAX_IDLE_CONNS")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.Assessment.MaxBankSize = viper.GetInt("ASSESSMENT_MAX_BANK_SIZE")
	config.Assessment.MaxPresented = viper.GetInt("ASSESSMENT_MAX_PRESENTED")
	config.Assessment.SelectionSecret = viper.GetString("ASSESSMENT_SELECTION_SECRET")
	config.Assessment.MaxWarnings = viper.GetInt("ASSESSMENT_MAX_WARNINGS")

	// RATE_LIMIT_MAX requests per RATE_LIMIT_WINDOW_MS, normalised to a per-minute rate.
	window := time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_MS")) * time.Millisecond
	if window <= 0 {
		window = time.Minute
	}
	config.RateLimit.RequestsPerMinute = int(float64(viper.GetInt("RATE_LIMIT_MAX")) * float64(time.Minute) / float64(window))
	config.RateLimit.Burst = viper.GetInt("RATE_LIMIT_BURST")
	config.RateLimit.IdleTTL = 10 * time.Minute

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			config.CORS.AllowOrigins = append(config.CORS.AllowOrigins, origin)
		}
	}

	log.Info().Interface("config", config.Masked()).Msg("Config loaded")
	return &config, nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.Database.Password != "" {
		c.Database.Password = "****"
	}
	if c.Gemini.APIKey != "" {
		c.Gemini.APIKey = "****"
	}
	if c.Assessment.SelectionSecret != "" {
		c.Assessment.SelectionSecret = "****"
	}
	return c
}
