package rest

import (
	"context"
	"fmt"
	"sync"

	"encuesta/internal/model"
)

type memSurveys struct {
	mu sync.Mutex
	m  map[int64]model.Survey
}

func (r *memSurveys) Upsert(ctx context.Context, s *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[s.ID] = *s
	return nil
}

func (r *memSurveys) GetByID(ctx context.Context, id int64) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memSurveys) List(ctx context.Context) ([]*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Survey
	for _, s := range r.m {
		s := s
		s.QuestionGroups = nil
		out = append(out, &s)
	}
	return out, nil
}

func (r *memSurveys) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

type memInvitations struct {
	m map[string]*model.InvitationCodeRecord
}

func (r *memInvitations) Upsert(ctx context.Context, rec *model.InvitationCodeRecord) error {
	r.m[rec.Code] = rec
	return nil
}

func (r *memInvitations) Get(ctx context.Context, code string) (*model.InvitationCodeRecord, error) {
	return r.m[code], nil
}

type memResponses struct {
	mu   sync.Mutex
	list []model.StoredResponse
}

func (r *memResponses) Create(ctx context.Context, resp *model.StoredResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp.ID = fmt.Sprint(len(r.list) + 1)
	r.list = append(r.list, *resp)
	return nil
}

func (r *memResponses) HasAnswered(ctx context.Context, email string, surveyID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.list {
		if resp.Participant.Email == email && resp.SurveyID == surveyID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memResponses) CountBySurvey(ctx context.Context, surveyID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, resp := range r.list {
		if resp.SurveyID == surveyID {
			n++
		}
	}
	return n, nil
}

type memProgress struct {
	mu sync.Mutex
	m  map[string]model.ProgressSnapshot
}

func progressKey(email string, surveyID int64) string {
	return fmt.Sprintf("%d:%s", surveyID, email)
}

func (r *memProgress) Save(ctx context.Context, snap *model.ProgressSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[progressKey(snap.Email, snap.SurveyID)] = *snap
	return nil
}

func (r *memProgress) Get(ctx context.Context, email string, surveyID int64) (*model.ProgressSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.m[progressKey(email, surveyID)]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (r *memProgress) Delete(ctx context.Context, email string, surveyID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(email, surveyID)
	_, ok := r.m[key]
	delete(r.m, key)
	return ok, nil
}

func (r *memProgress) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
