package dao

import (
	"fmt"
	"time"
)

// SurveyStatus is derived from the active flag and the expiry date at query
// time, never stored.
type SurveyStatus string

const (
	StatusInactive SurveyStatus = "inactive"
	StatusExpired  SurveyStatus = "expired"
	StatusActive   SurveyStatus = "active"
)

func (s *Survey) IsActive() bool { return s.Active == "Y" }

// IsExpired reports whether the expiry date lies before now. now is the
// site-adjusted time (config.AdjustedNow).
func (s *Survey) IsExpired(now time.Time) bool {
	return s.Expires != nil && s.Expires.Before(now)
}

func (s *Survey) Status(now time.Time) SurveyStatus {
	switch {
	case !s.IsActive():
		return StatusInactive
	case s.IsExpired(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// Hints returns the advisory lines describing the survey configuration, in a
// fixed order. questionCount and groupCount come from the content layer;
// canCreateContent gates the add-content advice for the caller's user.
func (s *Survey) Hints(questionCount, groupCount int, canCreateContent bool) []string {
	var result []string

	if !s.IsActive() && questionCount == 0 {
		result = append(result, "Survey cannot be activated yet.")
		if groupCount == 0 && canCreateContent {
			result = append(result, "You need to add question groups")
		}
		if canCreateContent {
			result = append(result, "You need to add questions")
		}
	}

	if s.Anonymized != "N" {
		result = append(result, "Responses to this survey are anonymized.")
	} else {
		result = append(result, "Responses to this survey are NOT anonymized.")
	}

	switch s.Format {
	case "S":
		result = append(result, "It is presented question by question.")
	case "G":
		result = append(result, "It is presented group by group.")
	default:
		result = append(result, "It is presented on one single page.")
	}

	if s.QuestionIndex > 0 {
		switch {
		case s.Format == "A":
			result = append(result, "No question index will be shown with this format.")
		case s.QuestionIndex == 1:
			result = append(result, "A question index will be shown; participants will be able to jump between viewed questions.")
		case s.QuestionIndex == 2:
			result = append(result, "A full question index will be shown; participants will be able to jump between relevant questions.")
		}
	}

	if s.DateStamp == "Y" {
		result = append(result, "Responses will be date stamped.")
	}
	if s.IPAddr == "Y" {
		result = append(result, "IP Addresses will be logged")
	}
	if s.RefURL == "Y" {
		result = append(result, "Referrer URL will be saved.")
	}
	if s.UseCookie == "Y" {
		result = append(result, "It uses cookies for access control.")
	}
	if s.AllowRegister == "Y" {
		result = append(result, "If tokens are used, the public may register for this survey")
	}
	if s.AllowSave == "Y" && s.TokenAnswersPersistence == "N" {
		result = append(result, "Participants can save partially finished surveys")
	}
	if s.EmailNotificationTo != "" {
		result = append(result, fmt.Sprintf("Basic email notification is sent to: %s", s.EmailNotificationTo))
	}
	if s.EmailResponseTo != "" {
		result = append(result, fmt.Sprintf("Detailed email notification with response data is sent to: %s", s.EmailResponseTo))
	}

	return result
}
