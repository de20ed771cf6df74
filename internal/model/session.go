package model

import "time"

// SubmissionStatus is the latch state of a session's final submission
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "not_submitted"
	SubmissionInFlight  SubmissionStatus = "submitting"
	SubmissionSubmitted SubmissionStatus = "submitted"
)

// CheckStatus is the state of a remotely validated input
type CheckStatus string

const (
	CheckUnchecked CheckStatus = "unchecked"
	CheckPending   CheckStatus = "checking"
	CheckValid     CheckStatus = "valid"
	CheckInvalid   CheckStatus = "invalid"
)

// CheckState is the serialized form of a remote check
type CheckState struct {
	Value      string      `json:"value"`
	Status     CheckStatus `json:"status"`
	Generation uint64      `json:"generation"`
}

// SessionState is the serialized wizard session kept between requests
type SessionState struct {
	ID             string            `json:"id"`
	SurveyID       int64             `json:"surveyId"`
	Position       int               `json:"position"`
	Complete       bool              `json:"complete"`
	Responses      []FormResponse    `json:"responses"`
	Profile        RespondentProfile `json:"profile"`
	InvitationCode CheckState        `json:"invitationCode"`
	EmailCheck     CheckState        `json:"emailCheck"`

	// Offer is a snapshot found for the profile email that awaits accept/discard
	Offer      *ProgressSnapshot `json:"offer,omitempty"`
	Submission SubmissionStatus  `json:"submission"`
	LastError  string            `json:"lastError,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
