// Survey aggregate root. The survey row owns its language settings, a set of
// dependent entities (questions, quotas, permissions...) and up to three
// dynamically named tables keyed by the survey id.
package dao

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"github.com/go-playground/validator"
	"gorm.io/gorm"
)

type Survey struct {
	// The id doubles as the name fragment of the dynamic tables, so it is
	// restricted to the digits 1-9 (see allocator.go).
	ID      string `json:"sid" gorm:"column:sid;primaryKey"`
	OwnerID string `json:"owner_id" gorm:"column:owner_id;index"`

	DateCreated time.Time  `json:"datecreated" gorm:"column:datecreated"`
	StartDate   *time.Time `json:"startdate" gorm:"column:startdate" extensions:"x-nullable"`
	Expires     *time.Time `json:"expires" gorm:"column:expires" extensions:"x-nullable"`

	Admin       string `json:"admin" gorm:"column:admin"`
	AdminEmail  string `json:"adminemail" gorm:"column:adminemail"`
	FaxTo       string `json:"faxto" gorm:"column:faxto"`
	BounceEmail string `json:"bounce_email" gorm:"column:bounce_email"`
	Template    string `json:"template" gorm:"column:template"`

	Language string `json:"language" gorm:"column:language" validate:"required,langcode"`
	// Space-delimited in storage; use AdditionalLanguages()/SetAdditionalLanguages().
	AdditionalLanguagesRaw string `json:"-" gorm:"column:additional_languages"`

	// Raw attribute descriptions: structured JSON or the legacy
	// newline-delimited key=description format (see attributes.go).
	AttributeDescriptionsRaw string `json:"-" gorm:"column:attributedescriptions"`

	Active                   string `json:"active" gorm:"column:active;default:N" validate:"omitempty,oneof=Y N"`
	Anonymized               string `json:"anonymized" gorm:"column:anonymized;default:N" validate:"omitempty,oneof=Y N"`
	SaveTimings              string `json:"savetimings" gorm:"column:savetimings;default:N" validate:"omitempty,oneof=Y N"`
	DateStamp                string `json:"datestamp" gorm:"column:datestamp;default:N" validate:"omitempty,oneof=Y N"`
	UseCookie                string `json:"usecookie" gorm:"column:usecookie;default:N" validate:"omitempty,oneof=Y N"`
	AllowRegister            string `json:"allowregister" gorm:"column:allowregister;default:N" validate:"omitempty,oneof=Y N"`
	AllowSave                string `json:"allowsave" gorm:"column:allowsave;default:Y" validate:"omitempty,oneof=Y N"`
	AutoRedirect             string `json:"autoredirect" gorm:"column:autoredirect;default:N" validate:"omitempty,oneof=Y N"`
	AllowPrev                string `json:"allowprev" gorm:"column:allowprev;default:N" validate:"omitempty,oneof=Y N"`
	PrintAnswers             string `json:"printanswers" gorm:"column:printanswers;default:N" validate:"omitempty,oneof=Y N"`
	IPAddr                   string `json:"ipaddr" gorm:"column:ipaddr;default:N" validate:"omitempty,oneof=Y N"`
	RefURL                   string `json:"refurl" gorm:"column:refurl;default:N" validate:"omitempty,oneof=Y N"`
	PublicStatistics         string `json:"publicstatistics" gorm:"column:publicstatistics;default:N" validate:"omitempty,oneof=Y N"`
	PublicGraphs             string `json:"publicgraphs" gorm:"column:publicgraphs;default:N" validate:"omitempty,oneof=Y N"`
	ListPublic               string `json:"listpublic" gorm:"column:listpublic;default:N" validate:"omitempty,oneof=Y N"`
	HTMLEmail                string `json:"htmlemail" gorm:"column:htmlemail;default:N" validate:"omitempty,oneof=Y N"`
	SendConfirmation         string `json:"sendconfirmation" gorm:"column:sendconfirmation;default:Y" validate:"omitempty,oneof=Y N"`
	TokenAnswersPersistence  string `json:"tokenanswerspersistence" gorm:"column:tokenanswerspersistence;default:N" validate:"omitempty,oneof=Y N"`
	Assessments              string `json:"assessments" gorm:"column:assessments;default:N" validate:"omitempty,oneof=Y N"`
	UseTokens                string `json:"usetokens" gorm:"column:usetokens;default:N" validate:"omitempty,oneof=Y N"`
	ShowXQuestions           string `json:"showxquestions" gorm:"column:showxquestions;default:Y" validate:"omitempty,oneof=Y N"`
	ShowNoAnswer             string `json:"shownoanswer" gorm:"column:shownoanswer;default:Y" validate:"omitempty,oneof=Y N"`
	ShowWelcome              string `json:"showwelcome" gorm:"column:showwelcome;default:Y" validate:"omitempty,oneof=Y N"`
	ShowProgress             string `json:"showprogress" gorm:"column:showprogress;default:Y" validate:"omitempty,oneof=Y N"`
	NoKeyboard               string `json:"nokeyboard" gorm:"column:nokeyboard;default:N" validate:"omitempty,oneof=Y N"`
	AllowEditAfterCompletion string `json:"alloweditaftercompletion" gorm:"column:alloweditaftercompletion;default:N" validate:"omitempty,oneof=Y N"`

	BounceProcessing string `json:"bounceprocessing" gorm:"column:bounceprocessing;default:N" validate:"omitempty,oneof=L N G"`
	UseCaptcha       string `json:"usecaptcha" gorm:"column:usecaptcha;default:N" validate:"omitempty,oneof=A B C D X R S N"`
	ShowGroupInfo    string `json:"showgroupinfo" gorm:"column:showgroupinfo;default:B" validate:"omitempty,oneof=B N D X"`
	ShowQNumCode     string `json:"showqnumcode" gorm:"column:showqnumcode;default:X" validate:"omitempty,oneof=B N C X"`
	// Presentation mode: G group by group, S question by question, A all in one.
	Format string `json:"format" gorm:"column:format;default:G" validate:"omitempty,oneof=G S A"`

	QuestionIndex        int `json:"questionindex" gorm:"column:questionindex;default:0" validate:"min=0,max=2"`
	GoogleAnalyticsStyle int `json:"googleanalyticsstyle" gorm:"column:googleanalyticsstyle;default:0" validate:"min=0,max=2"`
	AutonumberStart      int `json:"autonumber_start" gorm:"column:autonumber_start;default:0"`
	TokenLength          int `json:"tokenlength" gorm:"column:tokenlength;default:15" validate:"omitempty,min=5,max=36"`
	BounceTime           int `json:"bouncetime" gorm:"column:bouncetime;default:0"`
	NavigationDelay      int `json:"navigationdelay" gorm:"column:navigationdelay;default:0"`

	GoogleAnalyticsAPIKey string `json:"googleanalyticsapikey" gorm:"column:googleanalyticsapikey"`
	EmailNotificationTo   string `json:"emailnotificationto" gorm:"column:emailnotificationto"`
	EmailResponseTo       string `json:"emailresponseto" gorm:"column:emailresponseto"`

	LanguageSettings []SurveyLanguageSetting `json:"-" gorm:"foreignKey:SurveyID;references:ID"`
}

func (Survey) TableName() string { return "surveys" }

func (s Survey) GetId() string { return s.ID }

func (s Survey) GetString() string { return fmt.Sprintf("survey %s", s.ID) }

var surveyValidate = newSurveyValidator()

var langCodeRegexp = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})?$`)

func newSurveyValidator() *validator.Validate {
	v := validator.New()
	// registration only fails on an empty tag name
	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		return langCodeRegexp.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks every enumerated flag against its value set. Returns
// ErrSurveyValidation naming the offending fields.
func (s *Survey) Validate() error {
	if err := surveyValidate.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = fe.Field()
		}
		return apierrors.WithFormattedMessage(apierrors.ErrSurveyValidation, strings.Join(fields, ", "))
	}
	for _, lang := range s.AdditionalLanguages() {
		if !langCodeRegexp.MatchString(lang) {
			return apierrors.WithFormattedMessage(apierrors.ErrLanguageInvalid, lang)
		}
	}
	return nil
}

// BeforeSave keeps the additional languages list canonical: no duplicates, no
// base language, single-space delimited.
func (s *Survey) BeforeSave(tx *gorm.DB) error {
	s.SetAdditionalLanguages(s.AdditionalLanguages())
	s.AdminEmail = strings.TrimSpace(s.AdminEmail)
	s.BounceEmail = strings.TrimSpace(s.BounceEmail)
	return nil
}

// AdditionalLanguages returns the extra languages as a slice.
func (s *Survey) AdditionalLanguages() []string {
	raw := strings.TrimSpace(s.AdditionalLanguagesRaw)
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

// SetAdditionalLanguages stores the list, dropping duplicates and the base
// language.
func (s *Survey) SetAdditionalLanguages(languages []string) {
	var cleaned []string
	for _, lang := range languages {
		lang = strings.TrimSpace(lang)
		if lang == "" || lang == s.Language || slices.Contains(cleaned, lang) {
			continue
		}
		cleaned = append(cleaned, lang)
	}
	s.AdditionalLanguagesRaw = strings.Join(cleaned, " ")
}

// AllLanguages returns every language of the survey, base language first.
func (s *Survey) AllLanguages() []string {
	return append([]string{s.Language}, s.AdditionalLanguages()...)
}

// SetAllowJumps maps the pre-questionindex "allowjumps" flag kept by old
// clients: Y means a plain question index, anything else none.
func (s *Survey) SetAllowJumps(value string) {
	if value == "Y" {
		s.QuestionIndex = 1
	} else {
		s.QuestionIndex = 0
	}
}

// Expire sets the expiry one day before now and persists it when the survey
// is bound to a row. now is the site-adjusted time (config.AdjustedNow).
func (s *Survey) Expire(db *gorm.DB, now time.Time) error {
	expires := now.AddDate(0, 0, -1)
	s.Expires = &expires
	if s.ID == "" {
		return nil
	}
	return db.Model(&Survey{}).Where("sid = ?", s.ID).UpdateColumn("expires", expires).Error
}

// ExpireSurveyByID expires a survey by keyed update, without loading the row.
func ExpireSurveyByID(db *gorm.DB, surveyID string, now time.Time) error {
	return db.Model(&Survey{}).Where("sid = ?", surveyID).UpdateColumn("expires", now.AddDate(0, 0, -1)).Error
}

// Query scopes, usable as db.Scopes(...) arguments.

func ScopeActive(db *gorm.DB) *gorm.DB {
	return db.Where("active = 'Y'")
}

// ScopeOpen narrows to surveys currently accepting responses at the
// site-adjusted time.
func ScopeOpen(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(startdate <= ? OR startdate IS NULL) AND (expires >= ? OR expires IS NULL)", now, now)
	}
}

func ScopePublic(db *gorm.DB) *gorm.DB {
	return db.Where("listpublic = 'Y'")
}

// ScopeRegistration narrows to surveys open for public pre-registration.
func ScopeRegistration(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("allowregister = 'Y' AND startdate > ? AND (expires < ? OR expires IS NULL)", now, now)
	}
}

// GetSurvey loads a survey with its language settings.
func GetSurvey(db *gorm.DB, surveyID string) (*Survey, error) {
	var survey Survey
	if err := db.Preload("LanguageSettings").First(&survey, "sid = ?", surveyID).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}
