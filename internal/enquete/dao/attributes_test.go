package dao

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttributeDescriptionsEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		decoded := DecodeAttributeDescriptions(raw)
		assert.False(t, decoded.IsLegacy())
		assert.Empty(t, decoded.Normalize())
	}
}

func TestDecodeAttributeDescriptionsStructured(t *testing.T) {
	raw := `{"attribute_1":{"description":"Age","mandatory":"Y","show_register":"Y","cpdbmap":"birthdate"}}`
	decoded := DecodeAttributeDescriptions(raw)
	require.False(t, decoded.IsLegacy())

	fields := decoded.Normalize()
	require.Contains(t, fields, "attribute_1")
	assert.Equal(t, TokenAttribute{
		Description:    "Age",
		Mandatory:      "Y",
		ShowRegister:   "Y",
		ExternalSource: "birthdate",
	}, fields["attribute_1"])
}

func TestDecodeAttributeDescriptionsBackfillsDefaults(t *testing.T) {
	raw := `{"attribute_1":{"description":"Age"}}`
	fields := DecodeAttributeDescriptions(raw).Normalize()

	require.Contains(t, fields, "attribute_1")
	assert.Equal(t, "N", fields["attribute_1"].Mandatory)
	assert.Equal(t, "N", fields["attribute_1"].ShowRegister)
	assert.Empty(t, fields["attribute_1"].ExternalSource)
}

func TestDecodeAttributeDescriptionsLegacy(t *testing.T) {
	decoded := DecodeAttributeDescriptions("age=Age in years\ncity=City of residence")
	require.True(t, decoded.IsLegacy())

	fields := decoded.Normalize()
	require.Len(t, fields, 2)
	assert.Equal(t, TokenAttribute{Description: "Age in years", Mandatory: "N", ShowRegister: "N"}, fields["age"])
	assert.Equal(t, TokenAttribute{Description: "City of residence", Mandatory: "N", ShowRegister: "N"}, fields["city"])
}

func TestLegacyLinesWithoutSeparatorSkipped(t *testing.T) {
	fields := DecodeAttributeDescriptions("age=Age\nmalformed line\n\ncity=City").Normalize()
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "age")
	assert.Contains(t, fields, "city")
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`{"attribute_1":{"description":"Age"},"attribute_2":{"description":"City","mandatory":"Y"}}`,
		"age=Age in years\ncity=City of residence",
	}
	for _, raw := range inputs {
		decoded := DecodeAttributeDescriptions(raw)
		serialized, err := decoded.Serialize()
		require.NoError(t, err)

		again := DecodeAttributeDescriptions(serialized)
		assert.False(t, again.IsLegacy())
		assert.Equal(t, decoded.Normalize(), again.Normalize())
	}
}

func TestMalformedStructuredPassthrough(t *testing.T) {
	// Keys without the attribute_ prefix are tolerated and kept as-is.
	raw := `{"oddkey":{"description":"Odd"}}`
	decoded := DecodeAttributeDescriptions(raw)
	require.False(t, decoded.IsLegacy())
	assert.Contains(t, decoded.Normalize(), "oddkey")
}

func TestMigrateLegacyAttributes(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Legacy attributes")
	require.NoError(t, db.Model(&Survey{}).Where("sid = ?", survey.ID).
		UpdateColumn("attributedescriptions", "age=Age in years\ncity=City of residence").Error)
	survey.AttributeDescriptionsRaw = "age=Age in years\ncity=City of residence"

	migrated, err := survey.MigrateLegacyAttributes(db)
	require.NoError(t, err)
	assert.True(t, migrated)

	// The survey row now carries the structured form.
	var stored Survey
	require.NoError(t, db.First(&stored, "sid = ?", survey.ID).Error)
	var structured map[string]TokenAttribute
	require.NoError(t, json.Unmarshal([]byte(stored.AttributeDescriptionsRaw), &structured))
	assert.Equal(t, "Age in years", structured["age"].Description)
	assert.Equal(t, "N", structured["age"].Mandatory)

	// The base-language settings carry the captions.
	var ls SurveyLanguageSetting
	require.NoError(t, db.First(&ls, "surveyls_survey_id = ? AND surveyls_language = 'en'", survey.ID).Error)
	assert.Equal(t, "Age in years", ls.AttributeCaptions["age"])
	assert.Equal(t, "City of residence", ls.AttributeCaptions["city"])

	// Running it again is a no-op.
	migrated, err = stored.MigrateLegacyAttributes(db)
	require.NoError(t, err)
	assert.False(t, migrated)
}

func TestTokenAttributesIsPureRead(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Pure read")
	require.NoError(t, db.Model(&Survey{}).Where("sid = ?", survey.ID).
		UpdateColumn("attributedescriptions", "age=Age").Error)
	survey.AttributeDescriptionsRaw = "age=Age"

	fields := survey.TokenAttributes()
	assert.Equal(t, "Age", fields["age"].Description)

	// The stored value stays legacy until an explicit migration.
	var stored Survey
	require.NoError(t, db.First(&stored, "sid = ?", survey.ID).Error)
	assert.Equal(t, "age=Age", stored.AttributeDescriptionsRaw)
}
