package dao

import (
	"errors"

	"gorm.io/gorm"
)

// Template is an installed presentation template a survey can reference.
type Template struct {
	Name   string `json:"name" gorm:"column:name;primaryKey"`
	Folder string `json:"folder" gorm:"column:folder"`
}

func (Template) TableName() string { return "templates" }

// TemplateNameFilter returns name when such a template is installed, the
// configured default otherwise.
func TemplateNameFilter(db *gorm.DB, name string) (string, error) {
	if name == "" || name == Config.DefaultTemplate {
		return Config.DefaultTemplate, nil
	}
	var count int64
	if err := db.Model(&Template{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return Config.DefaultTemplate, nil
	}
	return name, nil
}

// CanUseTemplates reports whether the user may assign non-default templates.
func CanUseTemplates(db *gorm.DB, userID string) bool {
	if userID == "" {
		return false
	}
	var count int64
	err := db.Model(&Permission{}).
		Where("entity = 'template' AND uid = ? AND update_p = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

// FilterTemplateOnSave applies the template rules before a survey write. A
// caller without template permission only keeps a non-default template when
// the stored row already carries it unchanged; everything else falls back to
// the default.
func FilterTemplateOnSave(db *gorm.DB, survey *Survey, hasTemplatePermission bool) error {
	name, err := TemplateNameFilter(db, survey.Template)
	if err != nil {
		return err
	}
	if hasTemplatePermission {
		survey.Template = name
		return nil
	}

	if survey.ID != "" {
		var stored Survey
		err := db.Select("template").First(&stored, "sid = ?", survey.ID).Error
		if err == nil && stored.Template == survey.Template {
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	survey.Template = Config.DefaultTemplate
	return nil
}
