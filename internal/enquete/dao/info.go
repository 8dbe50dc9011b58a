package dao

import (
	"time"

	"github.com/enquete-app/enquete.go/internal/enquete/dto"
	"gorm.io/gorm"
)

// Info merges the survey row with the language settings resolved for lang
// into the flat external view. Admin name and email fall back to the
// configured site admin when the survey leaves them empty.
func (s *Survey) Info(db *gorm.DB, lang string) (*dto.SurveyInfo, error) {
	ls, err := s.Localization(db, lang)
	if err != nil {
		return nil, err
	}

	adminName := s.Admin
	if adminName == "" {
		adminName = Config.SiteAdminName
	}
	adminEmail := s.AdminEmail
	if adminEmail == "" {
		adminEmail = Config.SiteAdminEmail
	}

	attributes := map[string]dto.TokenAttributeInfo{}
	for key, attr := range s.TokenAttributes() {
		attributes[key] = dto.TokenAttributeInfo{
			Description:    attr.Description,
			Mandatory:      attr.Mandatory,
			ShowRegister:   attr.ShowRegister,
			ExternalSource: attr.ExternalSource,
		}
	}

	return &dto.SurveyInfo{
		SID:      s.ID,
		OwnerID:  s.OwnerID,
		Language: ls.Language,

		Name:           ls.Title,
		Description:    ls.Description,
		Welcome:        ls.WelcomeText,
		EndText:        ls.EndText,
		URL:            ls.URL,
		URLDescription: ls.URLDescription,

		EmailInviteSubject:   ls.EmailInviteSubject,
		EmailInvite:          ls.EmailInvite,
		EmailRemindSubject:   ls.EmailRemindSubject,
		EmailRemind:          ls.EmailRemind,
		EmailConfirmSubject:  ls.EmailConfirmSubject,
		EmailConfirm:         ls.EmailConfirm,
		EmailRegisterSubject: ls.EmailRegisterSubject,
		EmailRegister:        ls.EmailRegister,

		AdminName:  adminName,
		AdminEmail: adminEmail,
		FaxTo:      s.FaxTo,

		TemplateDir: s.Template,
		TableName:   ResponseTableName(s.ID),

		Active:    s.Active,
		Expiry:    formatNullableTime(s.Expires),
		StartDate: formatNullableTime(s.StartDate),

		Anonymized:    s.Anonymized,
		Format:        s.Format,
		DateFormat:    ls.DateFormat,
		TokenLength:   s.TokenLength,
		QuestionIndex: s.QuestionIndex,

		AttributeDescriptions: attributes,
		AttributeCaptions:     ls.AttributeCaptions,
	}, nil
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02 15:04:05")
	return &formatted
}
