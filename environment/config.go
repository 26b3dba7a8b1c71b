package environment

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

// Config is read once at start-up from the environment (and .env if present)
type Config struct {
	AppEnv   string // DEV | PRD
	APIPort  string
	CertFile string
	KeyFile  string
	LogLevel string

	DBURI          string
	DBName         string
	DBTransactions bool

	CacheAddr string
	CachePass string
	JWTDB     int
	CacheDB   int

	AccessSecret  string
	RefreshSecret string
	CookieName    string
	CookieHashKey string

	CORSOrigin string

	UseAnalytics    bool
	AnalyticsURL    string
	AnalyticsToken  string
	AnalyticsOrg    string
	AnalyticsBucket string
}

// Load reads the .env file (optional) and the process environment
func Load(files ...string) (*Config, error) {
	// a missing .env is fine in containers
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function (os.Getenv in production)
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppEnv:   strings.ToUpper(getenv("APP_ENV")),
		APIPort:  getenv("API_PORT"),
		CertFile: getenv("APP_CERTFILE"),
		KeyFile:  getenv("APP_KEYFILE"),
		LogLevel: getenv("LOG_LEVEL"),

		DBURI:          getenv("DB_URI"),
		DBName:         getenv("DB_NAME"),
		DBTransactions: yes(getenv("DB_TRANSACTIONS"), true),

		CachePass: getenv("CACHE_PASS"),

		AccessSecret:  getenv("ACCESS_SECRET"),
		RefreshSecret: getenv("REFRESH_SECRET"),
		CookieName:    getenv("JWTCK_NAME"),
		CookieHashKey: getenv("JWTCK_HASHKEY"),

		CORSOrigin: getenv("CORS_ORIGIN"),

		UseAnalytics:    yes(getenv("USE_ANALYTICS"), false),
		AnalyticsURL:    getenv("ANALYTICS_URL"),
		AnalyticsToken:  getenv("ANALYTICS_TOKEN"),
		AnalyticsOrg:    getenv("ANALYTICS_ORG"),
		AnalyticsBucket: getenv("ANALYTICS_BUCKET"),
	}

	if cfg.DBURI == "" && getenv("DB_HOST") != "" {
		cfg.DBURI = mongoURI(getenv("DB_USER"), getenv("DB_PASS"), getenv("DB_HOST"), getenv("DB_PORT"))
	}

	if host := getenv("CACHE_HOST"); host != "" {
		port := getenv("CACHE_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.CacheAddr = host + ":" + port
	}

	var err error
	if cfg.JWTDB, err = number(getenv("JWT_DB"), 0); err != nil {
		return nil, fmt.Errorf("JWT_DB: %w", err)
	}
	if cfg.CacheDB, err = number(getenv("CACHE_DB"), 1); err != nil {
		return nil, fmt.Errorf("CACHE_DB: %w", err)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "jwt"
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing required values
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AppEnv, validation.Required, validation.In("DEV", "PRD")),
		validation.Field(&c.APIPort, validation.Required, is.Port),
		validation.Field(&c.CertFile, validation.When(c.AppEnv == "PRD", validation.Required)),
		validation.Field(&c.KeyFile, validation.When(c.AppEnv == "PRD", validation.Required)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.DBURI, validation.Required),
		validation.Field(&c.DBName, validation.Required),
		validation.Field(&c.CacheAddr, validation.Required),
		validation.Field(&c.AccessSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.RefreshSecret, validation.Required, validation.Length(16, 0)),
		// securecookie needs a key of at least 16 bytes
		validation.Field(&c.CookieHashKey, validation.Length(16, 0)),
		validation.Field(&c.AnalyticsURL, validation.When(c.UseAnalytics, validation.Required, is.URL)),
		validation.Field(&c.AnalyticsToken, validation.When(c.UseAnalytics, validation.Required)),
		validation.Field(&c.AnalyticsOrg, validation.When(c.UseAnalytics, validation.Required)),
		validation.Field(&c.AnalyticsBucket, validation.When(c.UseAnalytics, validation.Required)),
	)
}

// IsDev
func (c *Config) IsDev() bool {
	return c.AppEnv == "DEV"
}

func mongoURI(user, pass, host, port string) string {
	if port == "" {
		port = "27017"
	}
	if user == "" {
		return fmt.Sprintf("mongodb://%s:%s", host, port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s", user, pass, host, port)
}

// YES/NO switches as used in the .env files
func yes(value string, def bool) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "YES", "Y", "TRUE", "1":
		return true
	case "NO", "N", "FALSE", "0":
		return false
	}
	return def
}

func number(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	return strconv.Atoi(value)
}
