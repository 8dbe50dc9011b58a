package dao

import (
	"testing"

	"github.com/enquete-app/enquete.go/internal/enquete/apierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizationResolvesRequestedLanguage(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Base title")
	survey.SetAdditionalLanguages([]string{"de"})
	require.NoError(t, db.Save(survey).Error)
	require.NoError(t, db.Create(&SurveyLanguageSetting{
		SurveyID: survey.ID,
		Language: "de",
		Title:    "Deutscher Titel",
	}).Error)

	loaded, err := GetSurvey(db, survey.ID)
	require.NoError(t, err)

	title, err := loaded.LocalizedTitle(db, "de")
	require.NoError(t, err)
	assert.Equal(t, "Deutscher Titel", title)
}

func TestLocalizationFallsBackToBase(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Base only")

	loaded, err := GetSurvey(db, survey.ID)
	require.NoError(t, err)

	// No French row exists, so the base-language settings are used.
	title, err := loaded.LocalizedTitle(db, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Base only", title)

	// Empty language means the base language.
	title, err = loaded.LocalizedTitle(db, "")
	require.NoError(t, err)
	assert.Equal(t, "Base only", title)
}

func TestLocalizationMissingEverywhere(t *testing.T) {
	// A survey without any language settings row is corrupt.
	survey := Survey{ID: "999111", Language: "en"}
	require.NoError(t, db.Create(&survey).Error)

	_, err := survey.Localization(db, "de")
	require.Error(t, err)

	defined, ok := err.(apierrors.DefinedError)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrMissingLocalization.Code, defined.Code)
}

func TestLocalizationSanitizesHTML(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Sanitized")

	var ls SurveyLanguageSetting
	require.NoError(t, db.First(&ls, "surveyls_survey_id = ?", survey.ID).Error)

	ls.Title = `Plain <script>alert(1)</script>title`
	ls.WelcomeText = `<p onclick="evil()">Welcome</p><script>alert(2)</script>`
	require.NoError(t, db.Save(&ls).Error)

	var stored SurveyLanguageSetting
	require.NoError(t, db.First(&stored, "surveyls_survey_id = ?", survey.ID).Error)
	assert.NotContains(t, stored.Title, "<script>")
	assert.NotContains(t, stored.WelcomeText, "script")
	assert.NotContains(t, stored.WelcomeText, "onclick")
	assert.Contains(t, stored.WelcomeText, "<p>Welcome</p>")
}

func TestRemoveLanguage(t *testing.T) {
	survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Multilingual")
	survey.SetAdditionalLanguages([]string{"de", "fr"})
	require.NoError(t, db.Save(survey).Error)
	for _, lang := range []string{"de", "fr"} {
		require.NoError(t, db.Create(&SurveyLanguageSetting{
			SurveyID: survey.ID,
			Language: lang,
			Title:    "Titel " + lang,
		}).Error)
	}

	require.NoError(t, survey.RemoveLanguage(db, "de"))
	assert.Equal(t, []string{"fr"}, survey.AdditionalLanguages())

	var count int64
	require.NoError(t, db.Model(&SurveyLanguageSetting{}).
		Where("surveyls_survey_id = ? AND surveyls_language = 'de'", survey.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	// The base language cannot be removed.
	err := survey.RemoveLanguage(db, "en")
	require.Error(t, err)
	defined, ok := err.(apierrors.DefinedError)
	require.True(t, ok)
	assert.Equal(t, apierrors.ErrLanguageInvalid.Code, defined.Code)
}
