// Wire representations returned by the HTTP layer. Field names follow the
// stable external vocabulary consumers already rely on, which differs from
// the storage column names.
package dto

import "gorm.io/datatypes"

// SurveyInfo is the flat merged view of a survey row and its resolved
// language settings.
type SurveyInfo struct {
	SID      string `json:"sid"`
	OwnerID  string `json:"owner_id"`
	Language string `json:"language"`

	// From the resolved language settings.
	Name           string `json:"name"`
	Description    string `json:"description"`
	Welcome        string `json:"welcome"`
	EndText        string `json:"endtext"`
	URL            string `json:"url"`
	URLDescription string `json:"urldescrip"`

	EmailInviteSubject   string `json:"email_invite_subj"`
	EmailInvite          string `json:"email_invite"`
	EmailRemindSubject   string `json:"email_remind_subj"`
	EmailRemind          string `json:"email_remind"`
	EmailConfirmSubject  string `json:"email_confirm_subj"`
	EmailConfirm         string `json:"email_confirm"`
	EmailRegisterSubject string `json:"email_register_subj"`
	EmailRegister        string `json:"email_register"`

	AdminName  string `json:"adminname"`
	AdminEmail string `json:"adminemail"`
	FaxTo      string `json:"faxto"`

	TemplateDir string `json:"templatedir"`
	TableName   string `json:"tablename"`

	Active    string  `json:"active"`
	Expiry    *string `json:"expiry"`
	StartDate *string `json:"startdate"`

	Anonymized    string `json:"anonymized"`
	Format        string `json:"format"`
	DateFormat    int    `json:"surveyls_dateformat"`
	TokenLength   int    `json:"tokenlength"`
	QuestionIndex int    `json:"questionindex"`

	AttributeDescriptions map[string]TokenAttributeInfo `json:"attributedescriptions"`
	AttributeCaptions     datatypes.JSONMap             `json:"attributecaptions"`
}

// TokenAttributeInfo mirrors dao.TokenAttribute on the wire.
type TokenAttributeInfo struct {
	Description    string `json:"description"`
	Mandatory      string `json:"mandatory"`
	ShowRegister   string `json:"show_register"`
	ExternalSource string `json:"cpdbmap"`
}

// SurveyStatusInfo reports the derived status with its advisory hints.
type SurveyStatusInfo struct {
	SID    string   `json:"sid"`
	Status string   `json:"status"`
	Hints  []string `json:"hints"`
}

// SurveyCounts reports the response counters of one survey.
type SurveyCounts struct {
	SID          string  `json:"sid"`
	Total        int64   `json:"total"`
	Complete     int64   `json:"complete"`
	Incomplete   int64   `json:"incomplete"`
	ResponseRate float64 `json:"response_rate"`
}
