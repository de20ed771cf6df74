package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a token to one wizard session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	SurveyID  int64  `json:"surveyId"`
	jwt.RegisteredClaims
}

// StartSessionRequest is the request body for opening a wizard session
type StartSessionRequest struct {
	SurveyID int64 `json:"surveyId"`
}

// StartSessionResponse is returned after a session is opened
type StartSessionResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}
