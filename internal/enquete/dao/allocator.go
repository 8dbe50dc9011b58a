// Survey identifier allocation. Ids are short digit strings excluding 0 so
// they read unambiguously in table names and URLs. The free-check before the
// insert is an optimization only; the unique constraint on surveys.sid is the
// actual guarantee, and CreateSurvey retries on conflict.
package dao

import (
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"gorm.io/gorm"
)

const (
	surveyIDAlphabet = "123456789"
	surveyIDLength   = 6
	allocateAttempts = 1000
)

func randomSurveyID() string {
	id := make([]byte, surveyIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(surveyIDAlphabet))))
		if err != nil {
			panic(err)
		}
		id[i] = surveyIDAlphabet[n.Int64()]
	}
	return string(id)
}

// surveyIDFree reports whether no survey row and no per-survey table claims
// the candidate id. Dynamic tables can outlive their survey row, so both
// checks are needed.
func surveyIDFree(db *gorm.DB, id string) (bool, error) {
	var count int64
	if err := db.Model(&Survey{}).Where("sid = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	m := db.Migrator()
	if m.HasTable(ResponseTableName(id)) || m.HasTable(TimingsTableName(id)) || m.HasTable(TokensTableName(id)) {
		return false, nil
	}
	return true, nil
}

// AllocateSurveyID returns a free survey id. A non-empty preferred id is
// honored when free; otherwise random candidates are drawn until one is free
// or the attempt budget runs out.
func AllocateSurveyID(db *gorm.DB, preferred string) (string, error) {
	if preferred != "" {
		free, err := surveyIDFree(db, preferred)
		if err != nil {
			return "", err
		}
		if free {
			return preferred, nil
		}
		surveyIDCollisionsCounter.Inc()
	}

	for attempt := 0; attempt < allocateAttempts; attempt++ {
		candidate := randomSurveyID()
		free, err := surveyIDFree(db, candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
		surveyIDCollisionsCounter.Inc()
	}
	return "", apierrors.ErrSurveyIDExhausted
}

// CreateSurvey allocates an id, validates the survey and writes the row
// together with its base-language settings in one transaction. A duplicate
// key on insert means another caller claimed the id between the free-check
// and the insert; the allocation is redone.
func CreateSurvey(db *gorm.DB, survey *Survey, baseSettings *SurveyLanguageSetting) error {
	if survey.Language == "" {
		survey.Language = Config.DefaultLanguage
	}
	if survey.Template == "" {
		survey.Template = Config.DefaultTemplate
	}
	if survey.DateCreated.IsZero() {
		survey.DateCreated = time.Now()
	}
	if err := survey.Validate(); err != nil {
		return err
	}
	if baseSettings == nil {
		baseSettings = &SurveyLanguageSetting{Title: "Untitled survey"}
	}
	baseSettings.Language = survey.Language

	preferred := survey.ID
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		id, err := AllocateSurveyID(db, preferred)
		if err != nil {
			return err
		}
		survey.ID = id
		baseSettings.SurveyID = id

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(survey).Error; err != nil {
				return err
			}
			return tx.Create(baseSettings).Error
		})
		if err == nil {
			surveysCreatedCounter.Inc()
			return nil
		}
		if !IsUniqueViolation(err) {
			return err
		}
		slog.Debug("Survey id claimed concurrently, reallocating", "sid", id)
		surveyIDCollisionsCounter.Inc()
		preferred = ""
	}
	return apierrors.ErrSurveyIDExhausted
}
