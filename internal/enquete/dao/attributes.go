// Extra respondent attribute descriptions. The surveys.attributedescriptions
// column historically held two formats: a structured JSON object of objects,
// and a legacy newline-delimited key=description list. The raw value is
// decoded once into a tagged variant; the legacy variant is upgraded in place
// by the explicit MigrateLegacyAttributes step, never as a side effect of a
// read.
package dao

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TokenAttribute describes one optional per-respondent field collected
// alongside responses.
type TokenAttribute struct {
	Description    string `json:"description"`
	Mandatory      string `json:"mandatory"`
	ShowRegister   string `json:"show_register"`
	ExternalSource string `json:"cpdbmap"`
}

// AttributeDescriptions is the decoded attributedescriptions value: either
// the structured map or the raw legacy text, never both.
type AttributeDescriptions struct {
	Structured map[string]TokenAttribute
	Legacy     string
	legacy     bool
}

func (a AttributeDescriptions) IsLegacy() bool { return a.legacy }

// DecodeAttributeDescriptions resolves the raw column value into a variant.
// Empty and JSON null both decode to an empty structured map; anything that
// is not valid JSON is the legacy format.
func DecodeAttributeDescriptions(raw string) AttributeDescriptions {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return AttributeDescriptions{Structured: map[string]TokenAttribute{}}
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &outer); err != nil {
		return AttributeDescriptions{Legacy: raw, legacy: true}
	}

	structured := make(map[string]TokenAttribute, len(outer))
	for key, value := range outer {
		var attr TokenAttribute
		// non-object values are kept as empty descriptors
		_ = json.Unmarshal(value, &attr)
		structured[key] = attr
	}

	// Known quirk carried over from the previous implementation: a structured
	// value whose keys are not attribute_N-prefixed is accepted as-is. It is
	// logged so the rows can be found, but not corrected.
	if len(structured) > 0 {
		keys := make([]string, 0, len(structured))
		for k := range structured {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if !strings.HasPrefix(keys[0], "attribute_") {
			slog.Warn("Attribute descriptions with unexpected key shape", "firstKey", keys[0])
		}
	}

	return AttributeDescriptions{Structured: structured}
}

// Normalize returns the complete descriptor map with every missing sub-field
// backfilled with its default.
func (a AttributeDescriptions) Normalize() map[string]TokenAttribute {
	result := map[string]TokenAttribute{}

	if a.legacy {
		for _, line := range strings.Split(a.Legacy, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			key, description, found := strings.Cut(line, "=")
			if !found || key == "" {
				slog.Debug("Skip malformed legacy attribute line", "line", line)
				continue
			}
			result[key] = TokenAttribute{Description: description}
		}
	} else {
		for key, attr := range a.Structured {
			result[key] = attr
		}
	}

	for key, attr := range result {
		if attr.Mandatory == "" {
			attr.Mandatory = "N"
		}
		if attr.ShowRegister == "" {
			attr.ShowRegister = "N"
		}
		result[key] = attr
	}
	return result
}

// Serialize renders the normalized map back into the structured column
// format. Normalize(Decode(Serialize(x))) == x for any input.
func (a AttributeDescriptions) Serialize() (string, error) {
	b, err := json.Marshal(a.Normalize())
	return string(b), err
}

// TokenAttributes returns the survey's attribute descriptors, legacy or
// structured. Pure read; legacy rows stay legacy until migrated.
func (s *Survey) TokenAttributes() map[string]TokenAttribute {
	return DecodeAttributeDescriptions(s.AttributeDescriptionsRaw).Normalize()
}

// MigrateLegacyAttributes upgrades a legacy attributedescriptions value to
// the structured format, persisting the structured JSON on the survey row
// and the caption map on the base-language settings. Returns true when a
// migration actually ran. Call once at load time or from a maintenance task.
func (s *Survey) MigrateLegacyAttributes(db *gorm.DB) (bool, error) {
	decoded := DecodeAttributeDescriptions(s.AttributeDescriptionsRaw)
	if !decoded.IsLegacy() {
		return false, nil
	}

	fields := decoded.Normalize()
	raw, err := json.Marshal(fields)
	if err != nil {
		return false, err
	}

	captions := make(datatypes.JSONMap, len(fields))
	for key, attr := range fields {
		captions[key] = attr.Description
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Survey{}).Where("sid = ?", s.ID).
			UpdateColumn("attributedescriptions", string(raw)).Error; err != nil {
			return err
		}

		var ls SurveyLanguageSetting
		if err := tx.First(&ls, "surveyls_survey_id = ? AND surveyls_language = ?", s.ID, s.Language).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apierrors.WithFormattedMessage(apierrors.ErrMissingLocalization, s.ID)
			}
			return err
		}
		ls.AttributeCaptions = captions
		return tx.Save(&ls).Error
	})
	if err != nil {
		return false, err
	}

	s.AttributeDescriptionsRaw = string(raw)
	slog.Info("Migrated legacy attribute descriptions", "survey", s.ID, "attributes", len(fields))
	return true, nil
}
