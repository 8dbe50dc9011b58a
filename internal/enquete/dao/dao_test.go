package dao

import (
	"os"
	"testing"

	"github.com/enquete-app/enquete.go/internal/enquete/config"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

var testModels = []any{
	&Survey{},
	&SurveyLanguageSetting{},
	&QuestionGroup{},
	&Question{},
	&Answer{},
	&Condition{},
	&QuestionAttribute{},
	&DefaultValue{},
	&Assessment{},
	&Permission{},
	&SavedControl{},
	&SurveyURLParameter{},
	&SurveyLink{},
	&Quota{},
	&QuotaMember{},
	&QuotaLanguageSetting{},
	&Template{},
}

func TestMain(m *testing.M) {
	Config = &config.Config{
		DefaultLanguage: "en",
		DefaultTemplate: "default",
		SiteAdminName:   "Site Administrator",
		SiteAdminEmail:  "admin@example.com",
	}

	var err error
	db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Exit(1)
	}

	// Single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		os.Exit(1)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(testModels...); err != nil {
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// mustCreateSurvey inserts a survey with its base-language settings for use
// as a test fixture.
func mustCreateSurvey(t *testing.T, survey *Survey, title string) *Survey {
	t.Helper()
	if err := CreateSurvey(db, survey, &SurveyLanguageSetting{Title: title}); err != nil {
		t.Fatalf("create survey fixture: %v", err)
	}
	return survey
}
