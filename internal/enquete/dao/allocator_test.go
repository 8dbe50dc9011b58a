package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSurveyIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := randomSurveyID()
		assert.Len(t, id, 6)
		assert.NotContains(t, id, "0")
		for _, r := range id {
			assert.Contains(t, surveyIDAlphabet, string(r))
		}
		seen[id] = true
	}
	// 100 draws from 9^6 candidates colliding completely is not plausible.
	assert.Greater(t, len(seen), 90)
}

func TestAllocatePreferredHonored(t *testing.T) {
	id, err := AllocateSurveyID(db, "424242")
	require.NoError(t, err)
	assert.Equal(t, "424242", id)
}

func TestAllocatePreferredTaken(t *testing.T) {
	taken := mustCreateSurvey(t, &Survey{Language: "en"}, "Taken id")

	id, err := AllocateSurveyID(db, taken.ID)
	require.NoError(t, err)
	assert.NotEqual(t, taken.ID, id)
	assert.Len(t, id, 6)
}

func TestAllocateAvoidsOrphanedTables(t *testing.T) {
	// A leftover tokens table blocks the id even without a survey row.
	require.NoError(t, db.Table(TokensTableName("313131")).AutoMigrate(&surveyToken{}))
	defer db.Migrator().DropTable(TokensTableName("313131"))

	id, err := AllocateSurveyID(db, "313131")
	require.NoError(t, err)
	assert.NotEqual(t, "313131", id)
}

func TestCreateSurveyUniqueIDs(t *testing.T) {
	ids := map[string]bool{}
	for i := 0; i < 20; i++ {
		survey := mustCreateSurvey(t, &Survey{Language: "en"}, "Unique ids")
		assert.False(t, ids[survey.ID])
		ids[survey.ID] = true
	}
}

func TestCreateSurveyWithPreferredID(t *testing.T) {
	survey := &Survey{ID: "777777", Language: "en"}
	require.NoError(t, CreateSurvey(db, survey, &SurveyLanguageSetting{Title: "Preferred"}))
	assert.Equal(t, "777777", survey.ID)

	// A second create with the same preferred id gets a fresh one.
	other := &Survey{ID: "777777", Language: "en"}
	require.NoError(t, CreateSurvey(db, other, &SurveyLanguageSetting{Title: "Displaced"}))
	assert.NotEqual(t, "777777", other.ID)
}

func TestCreateSurveyValidationAborts(t *testing.T) {
	survey := &Survey{Language: "en", Anonymized: "Q"}
	err := CreateSurvey(db, survey, nil)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&Survey{}).Where("anonymized = 'Q'").Count(&count).Error)
	assert.Zero(t, count)
}
