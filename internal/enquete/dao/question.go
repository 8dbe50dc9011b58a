// Dependent entities owned by a survey. They exist here for the cascade
// delete and the content counters; authoring them is handled elsewhere.
package dao

import (
	"gorm.io/gorm"
)

type QuestionGroup struct {
	GID         int    `json:"gid" gorm:"column:gid;primaryKey;autoIncrement"`
	SurveyID    string `json:"sid" gorm:"column:sid;index"`
	GroupName   string `json:"group_name" gorm:"column:group_name"`
	GroupOrder  int    `json:"group_order" gorm:"column:group_order"`
	Description string `json:"description" gorm:"column:description"`
	Language    string `json:"language" gorm:"column:language"`
}

func (QuestionGroup) TableName() string { return "groups" }

type Question struct {
	QID           int    `json:"qid" gorm:"column:qid;primaryKey;autoIncrement"`
	ParentQID     int    `json:"parent_qid" gorm:"column:parent_qid;default:0"`
	SurveyID      string `json:"sid" gorm:"column:sid;index"`
	GID           int    `json:"gid" gorm:"column:gid;index"`
	Type          string `json:"type" gorm:"column:type"`
	Title         string `json:"title" gorm:"column:title"`
	QuestionText  string `json:"question" gorm:"column:question"`
	Mandatory     string `json:"mandatory" gorm:"column:mandatory;default:N"`
	QuestionOrder int    `json:"question_order" gorm:"column:question_order"`
	Language      string `json:"language" gorm:"column:language"`
}

func (Question) TableName() string { return "questions" }

type Answer struct {
	QID        int    `json:"qid" gorm:"column:qid;primaryKey"`
	Code       string `json:"code" gorm:"column:code;primaryKey"`
	AnswerText string `json:"answer" gorm:"column:answer"`
	SortOrder  int    `json:"sortorder" gorm:"column:sortorder"`
	Language   string `json:"language" gorm:"column:language;primaryKey;default:en"`
}

func (Answer) TableName() string { return "answers" }

type Condition struct {
	CID      int    `json:"cid" gorm:"column:cid;primaryKey;autoIncrement"`
	QID      int    `json:"qid" gorm:"column:qid;index"`
	CQID     int    `json:"cqid" gorm:"column:cqid"`
	CField   string `json:"cfieldname" gorm:"column:cfieldname"`
	Method   string `json:"method" gorm:"column:method"`
	Value    string `json:"value" gorm:"column:value"`
	Scenario int    `json:"scenario" gorm:"column:scenario;default:1"`
}

func (Condition) TableName() string { return "conditions" }

type QuestionAttribute struct {
	QAID      int    `json:"qaid" gorm:"column:qaid;primaryKey;autoIncrement"`
	QID       int    `json:"qid" gorm:"column:qid;index"`
	Attribute string `json:"attribute" gorm:"column:attribute"`
	Value     string `json:"value" gorm:"column:value"`
	Language  string `json:"language" gorm:"column:language"`
}

func (QuestionAttribute) TableName() string { return "question_attributes" }

type DefaultValue struct {
	QID      int    `json:"qid" gorm:"column:qid;primaryKey"`
	ScaleID  int    `json:"scale_id" gorm:"column:scale_id;primaryKey;default:0"`
	SQID     int    `json:"sqid" gorm:"column:sqid;primaryKey;default:0"`
	Language string `json:"language" gorm:"column:language;primaryKey"`
	Value    string `json:"defaultvalue" gorm:"column:defaultvalue"`
}

func (DefaultValue) TableName() string { return "defaultvalues" }

type Assessment struct {
	ID       int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SurveyID string `json:"sid" gorm:"column:sid;index"`
	Scope    string `json:"scope" gorm:"column:scope"`
	GID      int    `json:"gid" gorm:"column:gid"`
	Name     string `json:"name" gorm:"column:name"`
	MinTotal string `json:"minimum" gorm:"column:minimum"`
	MaxTotal string `json:"maximum" gorm:"column:maximum"`
	Message  string `json:"message" gorm:"column:message"`
	Language string `json:"language" gorm:"column:language;default:en"`
}

func (Assessment) TableName() string { return "assessments" }

type Permission struct {
	ID          string `json:"id" gorm:"column:id;primaryKey"`
	EntityType  string `json:"entity" gorm:"column:entity;index:idx_permissions_entity"`
	EntityID    string `json:"entity_id" gorm:"column:entity_id;index:idx_permissions_entity"`
	UserID      string `json:"uid" gorm:"column:uid;index"`
	Permission  string `json:"permission" gorm:"column:permission"`
	CreateAllow bool   `json:"create_p" gorm:"column:create_p"`
	ReadAllow   bool   `json:"read_p" gorm:"column:read_p"`
	UpdateAllow bool   `json:"update_p" gorm:"column:update_p"`
	DeleteAllow bool   `json:"delete_p" gorm:"column:delete_p"`
}

func (Permission) TableName() string { return "permissions" }

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = GenUUID().String()
	}
	return nil
}

// SavedControl tracks partially finished responses a participant may resume.
type SavedControl struct {
	SCID       int    `json:"scid" gorm:"column:scid;primaryKey;autoIncrement"`
	SurveyID   string `json:"sid" gorm:"column:sid;index"`
	SRID       int    `json:"srid" gorm:"column:srid"`
	Identifier string `json:"identifier" gorm:"column:identifier"`
	AccessCode string `json:"access_code" gorm:"column:access_code"`
	Email      string `json:"email" gorm:"column:email"`
	IP         string `json:"ip" gorm:"column:ip"`
	SaveDate   string `json:"savedate" gorm:"column:savedate"`
}

func (SavedControl) TableName() string { return "saved_control" }

type SurveyURLParameter struct {
	ID        int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SurveyID  string `json:"sid" gorm:"column:sid;index"`
	Parameter string `json:"parameter" gorm:"column:parameter"`
	TargetQID int    `json:"targetqid" gorm:"column:targetqid"`
}

func (SurveyURLParameter) TableName() string { return "survey_url_parameters" }

// SurveyLink connects a survey to an external participant panel.
type SurveyLink struct {
	ParticipantID string `json:"participant_id" gorm:"column:participant_id;primaryKey"`
	TokenID       int    `json:"token_id" gorm:"column:token_id;primaryKey"`
	SurveyID      string `json:"survey_id" gorm:"column:survey_id;primaryKey"`
	DateCreated   string `json:"date_created" gorm:"column:date_created"`
}

func (SurveyLink) TableName() string { return "survey_links" }

type Quota struct {
	ID       int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SurveyID string `json:"sid" gorm:"column:sid;index"`
	Name     string `json:"name" gorm:"column:name"`
	Limit    int    `json:"qlimit" gorm:"column:qlimit"`
	Action   int    `json:"action" gorm:"column:action"`
	Active   int    `json:"active" gorm:"column:active;default:1"`
}

func (Quota) TableName() string { return "quota" }

type QuotaMember struct {
	ID       int    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	SurveyID string `json:"sid" gorm:"column:sid;index"`
	QID      int    `json:"qid" gorm:"column:qid"`
	QuotaID  int    `json:"quota_id" gorm:"column:quota_id;index"`
	Code     string `json:"code" gorm:"column:code"`
}

func (QuotaMember) TableName() string { return "quota_members" }

type QuotaLanguageSetting struct {
	ID       int    `json:"quotals_id" gorm:"column:quotals_id;primaryKey;autoIncrement"`
	QuotaID  int    `json:"quotals_quota_id" gorm:"column:quotals_quota_id;index"`
	Language string `json:"quotals_language" gorm:"column:quotals_language;default:en"`
	Name     string `json:"quotals_name" gorm:"column:quotals_name"`
	Message  string `json:"quotals_message" gorm:"column:quotals_message"`
	URL      string `json:"quotals_url" gorm:"column:quotals_url"`
	URLDesc  string `json:"quotals_urldescrip" gorm:"column:quotals_urldescrip"`
}

func (QuotaLanguageSetting) TableName() string { return "quota_languagesettings" }

// CanCreateContent reports whether the user holds a create permission on the
// survey's content.
func CanCreateContent(db *gorm.DB, surveyID, userID string) bool {
	if userID == "" {
		return false
	}
	var count int64
	err := db.Model(&Permission{}).
		Where("entity = 'survey' AND entity_id = ? AND uid = ? AND create_p = ?", surveyID, userID, true).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// QuestionCount counts top-level questions of a survey.
func QuestionCount(db *gorm.DB, surveyID string) (int64, error) {
	var count int64
	err := db.Model(&Question{}).Where("sid = ? AND parent_qid = 0", surveyID).Count(&count).Error
	return count, err
}

// GroupCount counts question groups of a survey.
func GroupCount(db *gorm.DB, surveyID string) (int64, error) {
	var count int64
	err := db.Model(&QuestionGroup{}).Where("sid = ?", surveyID).Count(&count).Error
	return count, err
}
