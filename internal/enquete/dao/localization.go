// Per-language survey settings and the language fallback resolution.
// Exactly one row exists per (survey, language) for every language the
// survey carries; the base-language row is created together with the survey
// and is the fallback for every localized read.
package dao

import (
	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	policy "github.com/enquete-app/enquete.go/internal/enquete/redactor-policy"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SurveyLanguageSetting struct {
	SurveyID string `json:"surveyls_survey_id" gorm:"column:surveyls_survey_id;primaryKey"`
	Language string `json:"surveyls_language" gorm:"column:surveyls_language;primaryKey"`

	Title          string `json:"surveyls_title" gorm:"column:surveyls_title" validate:"required"`
	Description    string `json:"surveyls_description" gorm:"column:surveyls_description"`
	WelcomeText    string `json:"surveyls_welcometext" gorm:"column:surveyls_welcometext"`
	EndText        string `json:"surveyls_endtext" gorm:"column:surveyls_endtext"`
	URL            string `json:"surveyls_url" gorm:"column:surveyls_url"`
	URLDescription string `json:"surveyls_urldescription" gorm:"column:surveyls_urldescription"`

	EmailInviteSubject   string `json:"surveyls_email_invite_subj" gorm:"column:surveyls_email_invite_subj"`
	EmailInvite          string `json:"surveyls_email_invite" gorm:"column:surveyls_email_invite"`
	EmailRemindSubject   string `json:"surveyls_email_remind_subj" gorm:"column:surveyls_email_remind_subj"`
	EmailRemind          string `json:"surveyls_email_remind" gorm:"column:surveyls_email_remind"`
	EmailConfirmSubject  string `json:"surveyls_email_confirm_subj" gorm:"column:surveyls_email_confirm_subj"`
	EmailConfirm         string `json:"surveyls_email_confirm" gorm:"column:surveyls_email_confirm"`
	EmailRegisterSubject string `json:"surveyls_email_register_subj" gorm:"column:surveyls_email_register_subj"`
	EmailRegister        string `json:"surveyls_email_register" gorm:"column:surveyls_email_register"`

	DateFormat int `json:"surveyls_dateformat" gorm:"column:surveyls_dateformat;default:1"`

	// Captions of the extra respondent attributes, keyed like
	// attributedescriptions on the survey row. Written by the legacy
	// attribute migration.
	AttributeCaptions datatypes.JSONMap `json:"surveyls_attributecaptions" gorm:"column:surveyls_attributecaptions"`
}

func (SurveyLanguageSetting) TableName() string { return "surveys_languagesettings" }

// BeforeSave strips scripts from the HTML text fields. The title is shown in
// plain contexts, so it loses markup entirely.
func (ls *SurveyLanguageSetting) BeforeSave(tx *gorm.DB) error {
	ls.Title = policy.StripTagsPolicy.Sanitize(ls.Title)
	ls.Description = policy.UgcPolicy.Sanitize(ls.Description)
	ls.WelcomeText = policy.UgcPolicy.Sanitize(ls.WelcomeText)
	ls.EndText = policy.UgcPolicy.Sanitize(ls.EndText)
	return nil
}

// Localization resolves the language settings for lang: the requested
// language when present, the survey base language otherwise. A survey with
// neither row is corrupt — every survey is created with its base-language
// row — so that case surfaces as ErrMissingLocalization instead of an empty
// result.
func (s *Survey) Localization(db *gorm.DB, lang string) (*SurveyLanguageSetting, error) {
	if lang == "" {
		lang = s.Language
	}

	// Prefer rows already preloaded on the aggregate.
	var base *SurveyLanguageSetting
	for i := range s.LanguageSettings {
		if s.LanguageSettings[i].Language == lang {
			return &s.LanguageSettings[i], nil
		}
		if s.LanguageSettings[i].Language == s.Language {
			base = &s.LanguageSettings[i]
		}
	}
	if base != nil {
		return base, nil
	}

	var ls SurveyLanguageSetting
	err := db.First(&ls, "surveyls_survey_id = ? AND surveyls_language = ?", s.ID, lang).Error
	if err == gorm.ErrRecordNotFound && lang != s.Language {
		err = db.First(&ls, "surveyls_survey_id = ? AND surveyls_language = ?", s.ID, s.Language).Error
	}
	if err == gorm.ErrRecordNotFound {
		return nil, apierrors.WithFormattedMessage(apierrors.ErrMissingLocalization, s.ID)
	}
	if err != nil {
		return nil, err
	}
	return &ls, nil
}

func (s *Survey) LocalizedTitle(db *gorm.DB, lang string) (string, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return "", err
	}
	return ls.Title, nil
}

func (s *Survey) LocalizedDescription(db *gorm.DB, lang string) (string, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return "", err
	}
	return ls.Description, nil
}

func (s *Survey) LocalizedWelcomeText(db *gorm.DB, lang string) (string, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return "", err
	}
	return ls.WelcomeText, nil
}

func (s *Survey) LocalizedEndText(db *gorm.DB, lang string) (string, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return "", err
	}
	return ls.EndText, nil
}

func (s *Survey) LocalizedEndURL(db *gorm.DB, lang string) (string, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return "", err
	}
	return ls.URL, nil
}

// RemoveLanguage drops a language from the survey and deletes its settings
// row. The base language cannot be removed.
func (s *Survey) RemoveLanguage(db *gorm.DB, lang string) error {
	if lang == s.Language {
		return apierrors.WithFormattedMessage(apierrors.ErrLanguageInvalid, lang)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		languages := s.AdditionalLanguages()
		languages = slicesDelete(languages, lang)
		s.SetAdditionalLanguages(languages)
		if err := tx.Model(&Survey{}).Where("sid = ?", s.ID).
			UpdateColumn("additional_languages", s.AdditionalLanguagesRaw).Error; err != nil {
			return err
		}
		return tx.Where("surveyls_survey_id = ? AND surveyls_language = ?", s.ID, lang).
			Delete(&SurveyLanguageSetting{}).Error
	})
}

func slicesDelete(list []string, value string) []string {
	res := list[:0]
	for _, v := range list {
		if v != value {
			res = append(res, v)
		}
	}
	return res
}
