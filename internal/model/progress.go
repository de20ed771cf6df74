package model

import "time"

// ProgressData is the session payload carried inside a snapshot
type ProgressData struct {
	GuestCodeResponse *InvitationCode    `json:"guestCodeResponse" bson:"guestCodeResponse"`
	EmailResponse     *RespondentProfile `json:"emailResponse" bson:"emailResponse"`
	Responses         []FormResponse     `json:"responses" bson:"responses"`
}

// ProgressSnapshot is the persisted state used to resume a session.
// It is overwritten in place per (email, survey) and never versioned.
type ProgressSnapshot struct {
	Email         string       `json:"email" bson:"email"`
	SurveyID      int64        `json:"survey_id" bson:"survey_id"`
	CurrentScreen int          `json:"current_screen" bson:"current_screen"`
	Data          ProgressData `json:"data" bson:"data"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty" bson:"updated_at"`
}

// SaveProgressRequest is the body of POST /progress/
type SaveProgressRequest struct {
	Email         string       `json:"email"`
	Survey        int64        `json:"survey"`
	SurveyID      int64        `json:"survey_id"`
	CurrentScreen int          `json:"current_screen"`
	Data          ProgressData `json:"data"`
}

// SaveRequest builds the wire body for a snapshot
func (p *ProgressSnapshot) SaveRequest() SaveProgressRequest {
	return SaveProgressRequest{
		Email:         p.Email,
		Survey:        p.SurveyID,
		SurveyID:      p.SurveyID,
		CurrentScreen: p.CurrentScreen,
		Data:          p.Data,
	}
}

// Snapshot converts a save request back into a snapshot.
// Older clients send only "survey", newer ones both fields.
func (r *SaveProgressRequest) Snapshot() *ProgressSnapshot {
	surveyID := r.SurveyID
	if surveyID == 0 {
		surveyID = r.Survey
	}
	return &ProgressSnapshot{
		Email:         r.Email,
		SurveyID:      surveyID,
		CurrentScreen: r.CurrentScreen,
		Data:          r.Data,
	}
}
