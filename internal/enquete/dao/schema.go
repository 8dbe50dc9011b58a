// Lifecycle of the dynamically named per-survey tables and the cascade
// delete. Table names are derived in exactly one place per kind so that
// create, drop and existence checks can never disagree.
package dao

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	schemacache "github.com/enquete-app/enquete.go/internal/enquete/schema-cache"
	"github.com/sethvargo/go-password/password"
	"gorm.io/gorm"
)

func ResponseTableName(surveyID string) string { return fmt.Sprintf("survey_%s", surveyID) }

func TimingsTableName(surveyID string) string { return fmt.Sprintf("survey_%s_timings", surveyID) }

func TokensTableName(surveyID string) string { return fmt.Sprintf("tokens_%s", surveyID) }

// surveyResponse is the row shape of a survey_<sid> table.
type surveyResponse struct {
	ID            int        `gorm:"column:id;primaryKey;autoIncrement"`
	Token         string     `gorm:"column:token;index"`
	SubmitDate    *time.Time `gorm:"column:submitdate"`
	LastPage      int        `gorm:"column:lastpage"`
	StartLanguage string     `gorm:"column:startlanguage"`
	Seed          string     `gorm:"column:seed"`
	StartDate     *time.Time `gorm:"column:startdate"`
	IPAddr        string     `gorm:"column:ipaddr"`
	RefURL        string     `gorm:"column:refurl"`
}

// surveyTiming is the row shape of a survey_<sid>_timings table.
type surveyTiming struct {
	ID            int     `gorm:"column:id;primaryKey"`
	InterviewTime float64 `gorm:"column:interviewtime"`
}

// surveyToken is the row shape of a tokens_<sid> table.
type surveyToken struct {
	TID         int    `gorm:"column:tid;primaryKey;autoIncrement"`
	FirstName   string `gorm:"column:firstname"`
	LastName    string `gorm:"column:lastname"`
	Email       string `gorm:"column:email"`
	EmailStatus string `gorm:"column:emailstatus;default:OK"`
	Token       string `gorm:"column:token;index"`
	Language    string `gorm:"column:language"`
	Sent        string `gorm:"column:sent;default:N"`
	RemindSent  string `gorm:"column:remindersent;default:N"`
	RemindCount int    `gorm:"column:remindercount;default:0"`
	Completed   string `gorm:"column:completed;default:N"`
	UsesLeft    int    `gorm:"column:usesleft;default:1"`
}

// SchemaManager answers and mutates "which per-survey tables exist". The
// existence cache is owned here and invalidated on every create and drop.
type SchemaManager struct {
	cache *schemacache.TablesCache
}

func NewSchemaManager() *SchemaManager {
	return &SchemaManager{cache: schemacache.NewTablesCache()}
}

func (sm *SchemaManager) hasTable(db *gorm.DB, surveyID string, kind schemacache.TableKind, name string) bool {
	if exists, ok := sm.cache.Lookup(surveyID, kind); ok {
		return exists
	}
	exists := db.Migrator().HasTable(name)
	sm.cache.Store(surveyID, kind, exists)
	return exists
}

func (sm *SchemaManager) HasResponseTable(db *gorm.DB, surveyID string) bool {
	return sm.hasTable(db, surveyID, schemacache.ResponseTable, ResponseTableName(surveyID))
}

func (sm *SchemaManager) HasTimingsTable(db *gorm.DB, surveyID string) bool {
	return sm.hasTable(db, surveyID, schemacache.TimingsTable, TimingsTableName(surveyID))
}

func (sm *SchemaManager) HasTokensTable(db *gorm.DB, surveyID string) bool {
	return sm.hasTable(db, surveyID, schemacache.TokensTable, TokensTableName(surveyID))
}

// Activate provisions the response table (and the timings table when timings
// are recorded) and flips the survey active. Activating an active survey is
// an error; a pre-existing response table is tolerated and reused.
func (sm *SchemaManager) Activate(db *gorm.DB, survey *Survey) error {
	if survey.Active == "Y" {
		return apierrors.WithFormattedMessage(apierrors.ErrSurveyAlreadyActive, survey.ID)
	}

	if sm.HasResponseTable(db, survey.ID) {
		slog.Warn("Response table already exists on activation", "sid", survey.ID)
	} else if err := db.Table(ResponseTableName(survey.ID)).AutoMigrate(&surveyResponse{}); err != nil {
		return err
	}
	sm.cache.Store(survey.ID, schemacache.ResponseTable, true)

	if survey.SaveTimings == "Y" && !sm.HasTimingsTable(db, survey.ID) {
		if err := db.Table(TimingsTableName(survey.ID)).AutoMigrate(&surveyTiming{}); err != nil {
			return err
		}
		sm.cache.Store(survey.ID, schemacache.TimingsTable, true)
	}

	if err := db.Model(&Survey{}).Where("sid = ?", survey.ID).UpdateColumn("active", "Y").Error; err != nil {
		return err
	}
	survey.Active = "Y"
	return nil
}

// ProvisionTokens creates the tokens table for closed-access mode. Idempotent.
func (sm *SchemaManager) ProvisionTokens(db *gorm.DB, survey *Survey) error {
	if sm.HasTokensTable(db, survey.ID) {
		return nil
	}
	if err := db.Table(TokensTableName(survey.ID)).AutoMigrate(&surveyToken{}); err != nil {
		return apierrors.WithFormattedMessage(apierrors.ErrSurveyTokensProvision, survey.ID)
	}
	sm.cache.Store(survey.ID, schemacache.TokensTable, true)
	return nil
}

// AddInvitationToken inserts a participant row with a generated access token.
func (sm *SchemaManager) AddInvitationToken(db *gorm.DB, survey *Survey, firstName, lastName, email string) (string, error) {
	if !sm.HasTokensTable(db, survey.ID) {
		return "", apierrors.WithFormattedMessage(apierrors.ErrSurveyTokensDisabled, survey.ID)
	}

	length := survey.TokenLength
	if length < 5 {
		length = 15
	}
	token, err := password.Generate(length, length/3, 0, false, true)
	if err != nil {
		return "", err
	}

	row := surveyToken{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Token:     token,
		Language:  survey.Language,
		UsesLeft:  1,
	}
	if err := db.Table(TokensTableName(survey.ID)).Create(&row).Error; err != nil {
		return "", err
	}
	return token, nil
}

// ResponseCount returns the number of stored responses, zero when the survey
// has no response table.
func (sm *SchemaManager) ResponseCount(db *gorm.DB, surveyID string) (int64, error) {
	if !sm.HasResponseTable(db, surveyID) {
		return 0, nil
	}
	var count int64
	err := db.Table(ResponseTableName(surveyID)).Count(&count).Error
	return count, err
}

func (sm *SchemaManager) CompletedResponseCount(db *gorm.DB, surveyID string) (int64, error) {
	if !sm.HasResponseTable(db, surveyID) {
		return 0, nil
	}
	var count int64
	err := db.Table(ResponseTableName(surveyID)).Where("submitdate IS NOT NULL").Count(&count).Error
	return count, err
}

func (sm *SchemaManager) PartialResponseCount(db *gorm.DB, surveyID string) (int64, error) {
	if !sm.HasResponseTable(db, surveyID) {
		return 0, nil
	}
	var count int64
	err := db.Table(ResponseTableName(surveyID)).Where("submitdate IS NULL").Count(&count).Error
	return count, err
}

// ResponseRate is not implemented and always reports zero.
func (sm *SchemaManager) ResponseRate(db *gorm.DB, surveyID string) float64 {
	return 0
}

// DeleteSurvey removes the survey row, and with recursive also every
// dependent row and the three per-survey tables. Dependent-row deletes run in
// one transaction with the survey row; failures of individual dependent
// deletes are logged and collected but only the survey row and the table
// drops are load-bearing. Drops run after the transaction commits and are
// existence-checked, so a missing table is a no-op.
func (sm *SchemaManager) DeleteSurvey(db *gorm.DB, surveyID string, recursive bool) error {
	var failed []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if recursive {
			sm.deleteDependents(tx, surveyID, &failed)
		}
		if err := tx.Where("sid = ?", surveyID).Delete(&Survey{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		failed = append(failed, "survey row")
		return &apierrors.CascadeDeleteError{SurveyID: surveyID, FailedSteps: failed}
	}

	if recursive {
		m := db.Migrator()
		for _, name := range []string{ResponseTableName(surveyID), TimingsTableName(surveyID), TokensTableName(surveyID)} {
			if !m.HasTable(name) {
				continue
			}
			if err := m.DropTable(name); err != nil {
				slog.Error("Drop of per-survey table failed", "table", name, "err", err)
				failed = append(failed, fmt.Sprintf("drop %s", name))
			}
		}
	}
	sm.cache.Invalidate(surveyID)
	surveysDeletedCounter.Inc()

	if len(failed) > 0 {
		return &apierrors.CascadeDeleteError{SurveyID: surveyID, FailedSteps: failed}
	}
	return nil
}

// deleteDependents removes every row keyed by the survey or by its questions.
// Order matters only for the question subtree: the question-keyed entities go
// before the questions themselves so the qid list is still resolvable.
func (sm *SchemaManager) deleteDependents(tx *gorm.DB, surveyID string, failed *[]string) {
	logStep := func(step string, err error) {
		if err != nil {
			slog.Warn("Dependent delete failed, continuing cascade", "sid", surveyID, "step", step, "err", err)
			*failed = append(*failed, step)
		}
	}

	var questionIDs []int
	if err := tx.Model(&Question{}).Where("sid = ?", surveyID).Pluck("qid", &questionIDs).Error; err != nil {
		logStep("collect question ids", err)
	}
	if len(questionIDs) > 0 {
		logStep("answers", tx.Where("qid IN ?", questionIDs).Delete(&Answer{}).Error)
		logStep("conditions", tx.Where("qid IN ?", questionIDs).Delete(&Condition{}).Error)
		logStep("question attributes", tx.Where("qid IN ?", questionIDs).Delete(&QuestionAttribute{}).Error)
		logStep("default values", tx.Where("qid IN ?", questionIDs).Delete(&DefaultValue{}).Error)
	}
	logStep("questions", tx.Where("sid = ?", surveyID).Delete(&Question{}).Error)

	logStep("assessments", tx.Where("sid = ?", surveyID).Delete(&Assessment{}).Error)
	logStep("question groups", tx.Where("sid = ?", surveyID).Delete(&QuestionGroup{}).Error)
	logStep("language settings", tx.Where("surveyls_survey_id = ?", surveyID).Delete(&SurveyLanguageSetting{}).Error)
	logStep("permissions", tx.Where("entity = 'survey' AND entity_id = ?", surveyID).Delete(&Permission{}).Error)
	logStep("saved responses", tx.Where("sid = ?", surveyID).Delete(&SavedControl{}).Error)
	logStep("url parameters", tx.Where("sid = ?", surveyID).Delete(&SurveyURLParameter{}).Error)
	logStep("panel links", tx.Where("survey_id = ?", surveyID).Delete(&SurveyLink{}).Error)

	var quotaIDs []int
	if err := tx.Model(&Quota{}).Where("sid = ?", surveyID).Pluck("id", &quotaIDs).Error; err != nil {
		logStep("collect quota ids", err)
	}
	if len(quotaIDs) > 0 {
		logStep("quota members", tx.Where("quota_id IN ?", quotaIDs).Delete(&QuotaMember{}).Error)
		logStep("quota language settings", tx.Where("quotals_quota_id IN ?", quotaIDs).Delete(&QuotaLanguageSetting{}).Error)
	}
	logStep("quotas", tx.Where("sid = ?", surveyID).Delete(&Quota{}).Error)
}

var (
	responseTableRegexp = regexp.MustCompile(`^survey_([1-9]+)(_timings)?$`)
	tokensTableRegexp   = regexp.MustCompile(`^tokens_([1-9]+)$`)
)

// SweepOrphanTables lists per-survey tables whose survey row no longer
// exists. Orphans are advisory: they are logged for reconciliation, never
// dropped automatically.
func (sm *SchemaManager) SweepOrphanTables(db *gorm.DB) ([]string, error) {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, table := range tables {
		var surveyID string
		if m := responseTableRegexp.FindStringSubmatch(table); m != nil {
			surveyID = m[1]
		} else if m := tokensTableRegexp.FindStringSubmatch(table); m != nil {
			surveyID = m[1]
		} else {
			continue
		}

		var count int64
		if err := db.Model(&Survey{}).Where("sid = ?", surveyID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			slog.Warn("Per-survey table without a survey row", "table", table, "sid", surveyID)
			orphans = append(orphans, table)
		}
	}
	orphanTablesGauge.Set(float64(len(orphans)))
	return orphans, nil
}
