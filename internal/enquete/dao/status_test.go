package dao

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusDerivation(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		active  string
		expires *time.Time
		want    SurveyStatus
	}{
		{"inactive regardless of dates", "N", &yesterday, StatusInactive},
		{"inactive without dates", "N", nil, StatusInactive},
		{"active without expiry", "Y", nil, StatusActive},
		{"active before expiry", "Y", &tomorrow, StatusActive},
		{"expired", "Y", &yesterday, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			survey := Survey{Active: tt.active, Expires: tt.expires}
			assert.Equal(t, tt.want, survey.Status(now))
		})
	}
}

func TestHintsOrderAndGating(t *testing.T) {
	survey := Survey{
		Active:                  "N",
		Anonymized:              "N",
		Format:                  "G",
		QuestionIndex:           0,
		AllowSave:               "Y",
		TokenAnswersPersistence: "N",
	}

	hints := survey.Hints(0, 0, true)
	assert.Equal(t, []string{
		"Survey cannot be activated yet.",
		"You need to add question groups",
		"You need to add questions",
		"Responses to this survey are NOT anonymized.",
		"It is presented group by group.",
		"Participants can save partially finished surveys",
	}, hints)
}

func TestHintsWithoutCreatePermission(t *testing.T) {
	survey := Survey{Active: "N", Anonymized: "N", Format: "G"}

	hints := survey.Hints(0, 0, false)
	assert.Contains(t, hints, "Survey cannot be activated yet.")
	assert.NotContains(t, hints, "You need to add question groups")
	assert.NotContains(t, hints, "You need to add questions")
}

func TestHintsActiveSurveySkipsActivationBlock(t *testing.T) {
	survey := Survey{Active: "Y", Anonymized: "N", Format: "G"}

	hints := survey.Hints(0, 0, true)
	assert.NotContains(t, hints, "Survey cannot be activated yet.")
}

func TestHintsQuestionIndex(t *testing.T) {
	survey := Survey{Active: "Y", Anonymized: "Y", Format: "S", QuestionIndex: 1}
	assert.Contains(t, survey.Hints(5, 1, false),
		"A question index will be shown; participants will be able to jump between viewed questions.")

	survey.QuestionIndex = 2
	assert.Contains(t, survey.Hints(5, 1, false),
		"A full question index will be shown; participants will be able to jump between relevant questions.")

	// All-in-one format cannot show an index no matter the setting.
	survey.Format = "A"
	assert.Contains(t, survey.Hints(5, 1, false),
		"No question index will be shown with this format.")
}

func TestHintsFlagPredicates(t *testing.T) {
	survey := Survey{
		Active:              "Y",
		Anonymized:          "Y",
		Format:              "A",
		DateStamp:           "Y",
		IPAddr:              "Y",
		RefURL:              "Y",
		UseCookie:           "Y",
		AllowRegister:       "Y",
		EmailNotificationTo: "alerts@example.com",
		EmailResponseTo:     "responses@example.com",
	}

	hints := survey.Hints(5, 1, false)
	assert.Equal(t, []string{
		"Responses to this survey are anonymized.",
		"It is presented on one single page.",
		"Responses will be date stamped.",
		"IP Addresses will be logged",
		"Referrer URL will be saved.",
		"It uses cookies for access control.",
		"If tokens are used, the public may register for this survey",
		"Basic email notification is sent to: alerts@example.com",
		"Detailed email notification with response data is sent to: responses@example.com",
	}, hints)
}
