package service

import (
	"context"
	"sync"

	"encuesta/internal/model"
)

// fakeAPI is an in-memory RemoteAPI
type fakeAPI struct {
	mu sync.Mutex

	surveys   map[int64]*model.Survey
	codes     map[string]bool
	answered  map[string]bool
	progress  map[string]*model.ProgressSnapshot
	submitted []model.SubmissionPayload

	saveErr   error
	checkErr  error
	submitErr error

	surveyFetches int
	saves         int
	deletes       int

	// onEmailCheck runs while an email check is in flight
	onEmailCheck func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		surveys:  map[int64]*model.Survey{1: testSurvey()},
		codes:    map[string]bool{"ABC": true},
		answered: map[string]bool{},
		progress: map[string]*model.ProgressSnapshot{},
	}
}

func (f *fakeAPI) GetSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surveyFetches++
	s, ok := f.surveys[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeAPI) ValidateInvitationCode(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.codes[code], nil
}

func (f *fakeAPI) ValidateEmail(ctx context.Context, email string, surveyID int64) (bool, error) {
	f.mu.Lock()
	hook := f.onEmailCheck
	err := f.checkErr
	answered := f.answered[email]
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return false, err
	}
	return !answered, nil
}

func (f *fakeAPI) SaveProgress(ctx context.Context, snap *model.ProgressSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	cp := *snap
	f.progress[progressKey(snap.Email, snap.SurveyID)] = &cp
	return nil
}

func (f *fakeAPI) GetProgress(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.progress[progressKey(email, surveyID)]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}

func (f *fakeAPI) DeleteProgress(ctx context.Context, email string, surveyID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.progress, progressKey(email, surveyID))
	return nil
}

func (f *fakeAPI) SubmitResponse(ctx context.Context, payload model.SubmissionPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, payload)
	f.answered[payload.Participant.Email] = true
	return nil
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// testSurvey has one plain group and one grid group whose answers must differ
func testSurvey() *model.Survey {
	return &model.Survey{
		ID:           1,
		Name:         "Clima laboral",
		Instructions: "Responde con sinceridad.",
		QuestionGroups: []model.QuestionGroup{
			{
				ID:   1,
				Name: "TEMA 1",
				Questions: []model.Question{
					{ID: 1, Text: "¿Te gusta tu trabajo?", Options: []model.Option{{ID: 11, Text: "Sí"}, {ID: 12, Text: "No"}}},
				},
			},
			{
				ID:        2,
				Name:      "TEMA 2",
				Modifiers: []model.Modifier{model.ModifierGrid, model.ModifierUnique},
				Questions: []model.Question{
					{ID: 2, Text: "Liderazgo", Options: []model.Option{{ID: 21, Text: "A"}, {ID: 22, Text: "B"}}},
					{ID: 3, Text: "Comunicación", Options: []model.Option{{ID: 31, Text: "A"}, {ID: 32, Text: "B"}}},
				},
			},
		},
	}
}

func testProfile() model.RespondentProfile {
	return model.RespondentProfile{
		Email:      "ana@example.com",
		Name:       "Ana",
		Gender:     "f",
		BirthRange: "1981-1996",
		Position:   "director",
	}
}
