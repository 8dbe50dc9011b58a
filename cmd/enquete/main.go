package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/enquete-app/enquete.go/internal/enquete"
	"github.com/enquete-app/enquete.go/internal/enquete/config"
	"github.com/enquete-app/enquete.go/internal/enquete/dao"
	"github.com/enquete-app/enquete.go/internal/enquete/gormlogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var version string = "DEV"

var models = []any{
	&dao.Survey{},
	&dao.SurveyLanguageSetting{},
	&dao.QuestionGroup{},
	&dao.Question{},
	&dao.Answer{},
	&dao.Condition{},
	&dao.QuestionAttribute{},
	&dao.DefaultValue{},
	&dao.Assessment{},
	&dao.Permission{},
	&dao.SavedControl{},
	&dao.SurveyURLParameter{},
	&dao.SurveyLink{},
	&dao.Quota{},
	&dao.QuotaMember{},
	&dao.QuotaLanguageSetting{},
	&dao.Template{},
}

func main() {
	noTranslateFlag := flag.Bool("noTranslate", false, "Turn off BD errors translate")
	paramQueries := flag.Bool("paramQueries", true, "Mask queries params in log")
	noMigration := flag.Bool("noMigration", false, "Turn off DB migration")
	trace := flag.Bool("trace", false, "Verbose logs and sql trace")
	flag.Parse()

	PrintBanner()

	cfg := config.ReadConfig()
	dao.Config = cfg

	if *trace {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Set prod log format
	if version != "DEV" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
	}

	slog.Info("Enquete start.")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DatabaseDSN,
	}), &gorm.Config{
		TranslateError: !*noTranslateFlag,
		Logger:         gormlogger.NewGormLogger(slog.Default(), time.Second*4, *paramQueries),
	})
	if err != nil {
		slog.Error("Fail init DB connection", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Fail set settings to conn pool", "err", err)
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(time.Minute * 15)

	if !*noMigration {
		slog.Info("Migrate models")
		if err := db.AutoMigrate(models...); err != nil {
			slog.Error("Models migration failed", "err", err)
			os.Exit(1)
		}
	}

	enquete.Server(db, cfg, version)
}

func PrintBanner() {
	banner := `
  ______                       _
 |  ____|                     | |
 | |__   _ __   __ _ _   _  ___| |_ ___
 |  __| | '_ \ / _  | | | |/ _ \ __/ _ \
 | |____| | | | (_| | |_| |  __/ ||  __/
 |______|_| |_|\__, |\__,_|\___|\__\___|
                  | |               %s
                  |_|
Survey lifecycle service
----------------------------------------------------
`
	colorReset := "\033[0m"
	colorYellow := "\033[33m"

	formattedVersion := version
	if version == "DEV" {
		formattedVersion = colorYellow + version + colorReset
	}

	fmt.Printf(banner, formattedVersion)
}
