package model

import "time"

// FormResponse is one ledger entry. At most one exists per question.
type FormResponse struct {
	QuestionID int64  `json:"questionId" bson:"questionId"`
	OptionID   *int64 `json:"optionId,omitempty" bson:"optionId,omitempty"`
	Answer     string `json:"answer" bson:"answer"` // Display text of the chosen option
}

// HasOption reports whether the entry carries a selected option id
func (r FormResponse) HasOption() bool {
	return r.OptionID != nil
}

// RespondentProfile is captured on the profile screen.
// Email together with the survey id keys the progress snapshot.
type RespondentProfile struct {
	Email      string `json:"email" bson:"email"`
	Name       string `json:"name" bson:"name"`
	Gender     string `json:"gender" bson:"gender"`
	BirthRange string `json:"birthRange" bson:"birthRange"`
	Position   string `json:"position" bson:"position"`
}

// InvitationCode is the guest code entered on the invitation screen
type InvitationCode struct {
	GuestCode string `json:"guestCode" bson:"guestCode"`
}

// Participant is the profile as the submission endpoint expects it
type Participant struct {
	Email      string `json:"email" bson:"email"`
	Name       string `json:"name" bson:"name"`
	Gender     string `json:"gender" bson:"gender"`
	BirthRange string `json:"birth_range" bson:"birth_range"`
	Position   string `json:"position" bson:"position"`
}

// ParticipantFrom converts a profile into the submission shape
func ParticipantFrom(p RespondentProfile) Participant {
	return Participant{
		Email:      p.Email,
		Name:       p.Name,
		Gender:     p.Gender,
		BirthRange: p.BirthRange,
		Position:   p.Position,
	}
}

// SubmissionPayload is the body of POST /response/
type SubmissionPayload struct {
	InvitationCode string      `json:"invitation_code" bson:"invitation_code"`
	SurveyID       int64       `json:"survey_id" bson:"survey_id"`
	Participant    Participant `json:"participant" bson:"participant"`
	Answers        []int64     `json:"answers" bson:"answers"`
}

// StoredResponse is a submission persisted by the reference API
type StoredResponse struct {
	ID                string `json:"id" bson:"_id,omitempty"`
	SubmissionPayload `bson:",inline"`
	SubmittedAt       time.Time `json:"submittedAt" bson:"submittedAt"`
}

// InvitationCodeRecord is an issued invitation code
type InvitationCodeRecord struct {
	Code      string    `json:"code" bson:"_id"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
