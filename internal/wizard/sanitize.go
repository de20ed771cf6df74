package wizard

import "encuesta/internal/model"

// Sanitize strips one pair of surrounding double quotes. Stored profile
// values have been seen wrapped in literal quotes by an upstream layer.
func Sanitize(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// SanitizeProfile applies Sanitize to every profile field
func SanitizeProfile(p model.RespondentProfile) model.RespondentProfile {
	return model.RespondentProfile{
		Email:      Sanitize(p.Email),
		Name:       Sanitize(p.Name),
		Gender:     Sanitize(p.Gender),
		BirthRange: Sanitize(p.BirthRange),
		Position:   Sanitize(p.Position),
	}
}
