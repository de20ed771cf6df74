package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"encuesta/internal/cache"
	"encuesta/internal/model"
	"encuesta/internal/service"
	"encuesta/internal/transport/ws"
	"encuesta/internal/wizard"
)

const apiKey = "test-key"

type stack struct {
	api       *httptest.Server
	wizard    *httptest.Server
	responses *memResponses
	progress  *memProgress
}

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

func newStack(t *testing.T) *stack {
	t.Helper()
	logger := zap.NewNop()
	auth := service.NewAuthService("test-secret", apiKey, time.Hour)

	surveys := &memSurveys{m: map[int64]model.Survey{1: *testSurvey()}}
	invitations := &memInvitations{m: map[string]*model.InvitationCodeRecord{
		"ABC":     {Code: "ABC", Active: true},
		"EXPIRED": {Code: "EXPIRED", Active: false},
	}}
	responses := &memResponses{}
	progress := &memProgress{m: map[string]model.ProgressSnapshot{}}

	apiSrv := httptest.NewServer(NewAPIRouter(&APIContainer{
		AuthService:        auth,
		SurveyService:      service.NewSurveyService(surveys),
		ParticipantService: service.NewParticipantService(invitations, responses, surveys),
		ProgressService:    service.NewProgressService(progress),
	}))
	t.Cleanup(apiSrv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := service.NewAPIClient(apiSrv.URL, apiKey, 5*time.Second, logger)
	wizardSvc := service.NewWizardService(
		client,
		cache.NewSessionCache(rdb, time.Hour),
		cache.NewSurveyCache(rdb, time.Hour),
		auth,
		service.NewProgressController(client, logger),
		1,
		logger,
	)
	hub := ws.NewHub(logger)
	t.Cleanup(hub.Stop)
	wizardSvc.SetBroadcaster(hub)

	wizardSrv := httptest.NewServer(NewRouter(&Container{
		AuthService:   auth,
		WizardService: wizardSvc,
		WSHub:         hub,
		Logger:        logger,
	}))
	t.Cleanup(wizardSrv.Close)

	return &stack{api: apiSrv, wizard: wizardSrv, responses: responses, progress: progress}
}

func doJSON(t *testing.T, method, url, auth string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// session drives one wizard session over HTTP
type session struct {
	t     *testing.T
	base  string
	token string
}

func startSession(t *testing.T, s *stack) *session {
	t.Helper()
	var resp model.StartSessionResponse
	status := doJSON(t, http.MethodPost, s.wizard.URL+"/v1/sessions", "", map[string]int64{"surveyId": 1}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Token)
	return &session{t: t, base: s.wizard.URL + "/v1/session", token: resp.Token}
}

func (s *session) call(method, path string, body interface{}) (int, *service.View) {
	s.t.Helper()
	var v service.View
	status := doJSON(s.t, method, s.base+path, "Bearer "+s.token, body, &v)
	return status, &v
}

func (s *session) must(method, path string, body interface{}) *service.View {
	s.t.Helper()
	status, v := s.call(method, path, body)
	require.Equal(s.t, http.StatusOK, status, "%s %s", method, path)
	return v
}

func profile() model.RespondentProfile {
	return model.RespondentProfile{
		Email:      "ana@example.com",
		Name:       "Ana",
		Gender:     "f",
		BirthRange: "1981-1996",
		Position:   "director",
	}
}

func (s *session) toProfile() {
	s.t.Helper()
	s.must(http.MethodPost, "/next", nil)
	s.must(http.MethodPut, "/invitation-code", map[string]string{"invitationCode": "ABC"})
	v := s.must(http.MethodPost, "/invitation-code/check", nil)
	require.Equal(s.t, model.CheckValid, v.Invitation.Status)
	v = s.must(http.MethodPost, "/next", nil)
	require.Equal(s.t, wizard.ProfileSlotIndex, v.Position)
}

func TestHealth(t *testing.T) {
	s := newStack(t)
	for _, url := range []string{s.api.URL, s.wizard.URL} {
		resp, err := http.Get(url + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	s := newStack(t)
	url := s.api.URL + "/surveys/1/"

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, url, "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, url, "Token wrong", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, url, "Bearer "+apiKey, nil, nil))

	var survey model.Survey
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, url, "Token "+apiKey, nil, &survey))
	assert.Equal(t, "Clima laboral", survey.Name)

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, s.api.URL+"/surveys/9/", "Token "+apiKey, nil, nil))
}

func TestAPISurveyPutValidates(t *testing.T) {
	s := newStack(t)
	auth := "Token " + apiKey

	bad := testSurvey()
	bad.QuestionGroups[1].Questions[0].ID = 1
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPut, s.api.URL+"/surveys/2/", auth, bad, nil))

	good := testSurvey()
	good.Name = "Otra"
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPut, s.api.URL+"/surveys/2/", auth, good, nil))

	var list []model.Survey
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, s.api.URL+"/surveys/", auth, nil, &list))
	assert.Len(t, list, 2)
}

func TestAPIProgressEndpoints(t *testing.T) {
	s := newStack(t)
	auth := "Token " + apiKey
	url := s.api.URL + "/progress/?email=ana%40example.com&survey=1"

	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, url, auth, nil, nil))

	body := map[string]interface{}{
		"email":          "ana@example.com",
		"survey":         1,
		"current_screen": 3,
		"data":           map[string]interface{}{"responses": []interface{}{}},
	}
	assert.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, s.api.URL+"/progress/", auth, body, nil))

	var snap model.ProgressSnapshot
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, url, auth, nil, &snap))
	assert.Equal(t, int64(1), snap.SurveyID)
	assert.Equal(t, 3, snap.CurrentScreen)

	assert.Equal(t, http.StatusNoContent, doJSON(t, http.MethodDelete, url, auth, nil, nil))
	assert.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, url, auth, nil, nil))
}

func TestAPIResponseRejections(t *testing.T) {
	s := newStack(t)
	auth := "Token " + apiKey
	payload := model.SubmissionPayload{
		InvitationCode: "EXPIRED",
		SurveyID:       1,
		Participant:    model.ParticipantFrom(profile()),
		Answers:        []int64{11, 21, 32},
	}

	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, s.api.URL+"/response/", auth, payload, nil))

	payload.InvitationCode = "ABC"
	payload.Answers = []int64{11, 12}
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, s.api.URL+"/response/", auth, payload, nil), "two answers for one question")

	payload.Answers = []int64{11, 21, 32}
	assert.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, s.api.URL+"/response/", auth, payload, nil))
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, s.api.URL+"/response/", auth, payload, nil), "repeat submission")

	has := map[string]interface{}{"email": "ana@example.com", "survey_id": 1}
	assert.Equal(t, http.StatusBadRequest, doJSON(t, http.MethodPost, s.api.URL+"/participant/has-answer/", auth, has, nil))
}

func TestWizardRequiresSessionToken(t *testing.T) {
	s := newStack(t)
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, s.wizard.URL+"/v1/session", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, http.MethodGet, s.wizard.URL+"/v1/session", "Bearer nope", nil, nil))
}

func TestWizardEndToEnd(t *testing.T) {
	s := newStack(t)
	sess := startSession(t, s)

	v := sess.must(http.MethodGet, "", nil)
	assert.Equal(t, wizard.SlotInfo, v.Slot.Kind)

	sess.toProfile()
	v = sess.must(http.MethodPut, "/profile", profile())
	assert.Equal(t, wizard.MsgEmailUnchecked, v.Verdict.Errors[wizard.KeyEmail])
	v = sess.must(http.MethodPost, "/email/check", nil)
	require.Equal(t, model.CheckValid, v.EmailCheck.Status)
	assert.Nil(t, v.ResumeOffer)

	v = sess.must(http.MethodPost, "/next", nil)
	require.Equal(t, wizard.GroupSlotIndex(0), v.Position)
	assert.Equal(t, "TEMA 1", v.Group.Name)
	assert.Equal(t, 1, s.progress.len())

	status, _ := sess.call(http.MethodPut, "/answers", map[string]int64{"questionId": 1, "optionId": 99})
	assert.Equal(t, http.StatusBadRequest, status)

	// Profile and code belong to their own screens
	other := profile()
	other.Email = "someone-else@example.com"
	status, _ = sess.call(http.MethodPut, "/profile", other)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = sess.call(http.MethodPut, "/invitation-code", map[string]string{"invitationCode": "NEVER-CHECKED"})
	assert.Equal(t, http.StatusConflict, status)

	sess.must(http.MethodPut, "/answers", map[string]int64{"questionId": 1, "optionId": 11})
	sess.must(http.MethodPost, "/next", nil)
	sess.must(http.MethodPut, "/answers", map[string]int64{"questionId": 2, "optionId": 21})
	v = sess.must(http.MethodPut, "/answers", map[string]int64{"questionId": 3, "optionId": 31})
	assert.True(t, v.Verdict.Blocked)
	v = sess.must(http.MethodPut, "/answers", map[string]int64{"questionId": 3, "optionId": 32})
	assert.False(t, v.Verdict.Blocked)

	v = sess.must(http.MethodPost, "/next", nil)
	assert.True(t, v.Complete)
	assert.Equal(t, model.SubmissionSubmitted, v.Submission)

	require.Len(t, s.responses.list, 1)
	assert.Equal(t, []int64{11, 21, 32}, s.responses.list[0].Answers)
	assert.Equal(t, "ABC", s.responses.list[0].InvitationCode)
	assert.Zero(t, s.progress.len(), "progress cleaned up after submit")

	status, _ = sess.call(http.MethodPost, "/submit", nil)
	assert.Equal(t, http.StatusConflict, status)

	// The same email cannot pass the profile check again
	again := startSession(t, s)
	again.toProfile()
	again.must(http.MethodPut, "/profile", profile())
	v = again.must(http.MethodPost, "/email/check", nil)
	assert.Equal(t, model.CheckInvalid, v.EmailCheck.Status)
}

func TestWizardResumeOverHTTP(t *testing.T) {
	s := newStack(t)

	first := startSession(t, s)
	first.toProfile()
	first.must(http.MethodPut, "/profile", profile())
	first.must(http.MethodPost, "/email/check", nil)
	first.must(http.MethodPost, "/next", nil)
	first.must(http.MethodPut, "/answers", map[string]int64{"questionId": 1, "optionId": 12})
	first.must(http.MethodPost, "/next", nil)

	second := startSession(t, s)
	second.toProfile()
	second.must(http.MethodPut, "/profile", profile())
	v := second.must(http.MethodPost, "/email/check", nil)
	require.NotNil(t, v.ResumeOffer)
	assert.Equal(t, wizard.GroupSlotIndex(1), v.ResumeOffer.CurrentScreen)

	status, _ := second.call(http.MethodPost, "/next", nil)
	assert.Equal(t, http.StatusConflict, status)

	v = second.must(http.MethodPost, "/resume", map[string]bool{"accept": true})
	assert.Equal(t, wizard.GroupSlotIndex(1), v.Position)
	assert.Equal(t, "TEMA 2", v.Group.Name)

	v = second.must(http.MethodPost, "/back", nil)
	require.Len(t, v.Responses, 1)
	assert.Equal(t, int64(12), *v.Responses[0].OptionID)
}
