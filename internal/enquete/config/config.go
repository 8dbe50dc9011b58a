// Application configuration loaded from environment variables.
// Struct fields are bound to variables through the `env` tag; secret values
// are masked before being logged.
package config

import (
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URL"`

	WebURLRaw string `env:"WEB_URL"`
	WebURL    *url.URL

	// Default language assigned to new surveys when the caller supplies none.
	DefaultLanguage string `env:"DEFAULT_LANGUAGE"`

	// Template applied to new surveys and used as the fallback when a caller
	// lacks permission for a custom one.
	DefaultTemplate string `env:"DEFAULT_TEMPLATE"`

	// Contact shown on surveys that carry no admin name/email of their own.
	SiteAdminName  string `env:"SITE_ADMIN_NAME"`
	SiteAdminEmail string `env:"SITE_ADMIN_EMAIL"`

	// Site-wide clock shift in minutes applied to every survey date
	// comparison (start, expiry). May be negative.
	TimeAdjustMinutes int `env:"TIME_ADJUST"`

	// Cron expression of the orphaned-tables sweep. Defaults to @hourly.
	OrphanSweepSchedule string `env:"ORPHAN_SWEEP_SCHEDULE"`

	MetricsEnable bool `env:"METRICS"`
}

// ReadConfig loads the configuration from a .env file (if present) and the
// process environment, validates required values and fills defaults.
func ReadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Skip .env file", "err", err)
	}

	config := &Config{}

	envConfig("env", config)

	if config.DatabaseDSN == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	if config.WebURLRaw != "" {
		var err error
		config.WebURL, err = url.Parse(config.WebURLRaw)
		if err != nil {
			slog.Error("WEB_URL incorrect", "err", err)
			os.Exit(1)
		}
	}

	if config.DefaultLanguage == "" {
		config.DefaultLanguage = "en"
	}

	if config.DefaultTemplate == "" {
		config.DefaultTemplate = "default"
	}

	if config.OrphanSweepSchedule == "" {
		config.OrphanSweepSchedule = "@hourly"
	}

	return config
}

// AdjustedNow returns the current time shifted by the configured site offset.
// Every status/expiry comparison goes through this so that all date logic
// agrees on one clock.
func (c *Config) AdjustedNow() time.Time {
	return time.Now().Add(time.Duration(c.TimeAdjustMinutes) * time.Minute)
}

// Assigns environment variable values to the fields of the passed struct. The
// variable name for each field comes from the field tag.
func envConfig(key string, s interface{}) {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)

		if !Exist(fEnvTag) {
			continue
		}

		logValue := GetEnv(fEnvTag)
		if logValue == "" {
			continue
		}

		// Secure passwords in log
		if strings.Contains(strings.ToLower(fName), "pass") || strings.Contains(strings.ToLower(fName), "secret") || strings.Contains(strings.ToLower(fName), "dsn") {
			pass := strings.Split(GetEnv(fEnvTag), "")
			logValue = pass[0]
			for i := 1; i < len(pass)-1; i++ {
				logValue += "*"
			}
			logValue += pass[len(pass)-1]
		}
		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue),
			slog.String("source", "ENVIRONMENT"),
		)

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(GetEnv(fEnvTag))
		case int:
			v.Field(i).SetInt(int64(GetIntEnv(fEnvTag)))
		case bool:
			v.Field(i).SetBool(GetBoolEnv(fEnvTag))
		}
	}
}
