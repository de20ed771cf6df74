package wizard

import "encuesta/internal/model"

func ptr(v int64) *int64 { return &v }

// testSurvey has two topic groups; the second is tagged grid+unique and
// reuses option labels across its questions.
func testSurvey() *model.Survey {
	return &model.Survey{
		ID:           1,
		Name:         "Evaluación de prueba",
		Instructions: "Tómese el tiempo necesario",
		QuestionGroups: []model.QuestionGroup{
			{
				ID:   2,
				Name: "TEMA 1 - Antecedentes tecnológicos",
				Questions: []model.Question{
					{ID: 3, Text: "Pregunta 3", Options: []model.Option{{ID: 4, Text: "Verdadero"}, {ID: 5, Text: "Falso"}}},
					{ID: 4, Text: "Pregunta 4", Options: []model.Option{{ID: 6, Text: "Verdadero"}, {ID: 7, Text: "Falso"}}},
				},
			},
			{
				ID:        3,
				Name:      "TEMA 2 - Prioridades",
				Modifiers: []model.Modifier{model.ModifierGrid, model.ModifierUnique},
				Questions: []model.Question{
					{ID: 9, Text: "Primera prioridad", Options: []model.Option{{ID: 16, Text: "A"}, {ID: 17, Text: "B"}}},
					{ID: 10, Text: "Segunda prioridad", Options: []model.Option{{ID: 18, Text: "A"}, {ID: 19, Text: "B"}}},
				},
			},
		},
	}
}

func validProfile() model.RespondentProfile {
	return model.RespondentProfile{
		Email:      "ana@example.com",
		Name:       "Ana",
		Gender:     "f",
		BirthRange: "1981-1996",
		Position:   "director",
	}
}

// walkToFirstGroup takes a fresh session through info, code and profile.
func walkToFirstGroup(s *Session) {
	s.Next()
	_ = s.EditInvitationCode("ABC123")
	t, _ := s.BeginInvitationCheck()
	s.ResolveInvitationCheck(t, true)
	s.Next()
	_ = s.EditProfile(validProfile())
	et, _, _ := s.BeginEmailCheck()
	s.ResolveEmailCheck(et, true)
	s.Next()
}
