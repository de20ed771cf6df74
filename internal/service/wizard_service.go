package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"encuesta/internal/cache"
	"encuesta/internal/model"
	"encuesta/internal/wizard"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrResumePending   = errors.New("a saved session is waiting to be resumed or discarded")
	ErrNoResumeOffer   = errors.New("no saved session to resume")
	ErrNotComplete     = errors.New("survey not complete")
)

// Shown when a remote check could not be performed
const MsgCheckUnavailable = "No se pudo validar en este momento. Inténtalo de nuevo."

// ResumeOffer summarizes a stored snapshot the respondent may resume
type ResumeOffer struct {
	CurrentScreen int       `json:"currentScreen"`
	Answered      int       `json:"answered"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

// View is what a renderer needs to draw the current screen
type View struct {
	SessionID    string                    `json:"sessionId"`
	SurveyID     int64                     `json:"surveyId"`
	SurveyName   string                    `json:"surveyName"`
	Slot         wizard.Slot               `json:"slot"`
	Position     int                       `json:"position"`
	TotalSlots   int                       `json:"totalSlots"`
	Progress     int                       `json:"progress"`
	Complete     bool                      `json:"complete"`
	Instructions string                    `json:"instructions,omitempty"`
	Group        *model.QuestionGroup      `json:"group,omitempty"`
	Responses    []model.FormResponse      `json:"responses"`
	Profile      model.RespondentProfile   `json:"profile"`
	Choices      map[string][]model.Choice `json:"choices,omitempty"`
	Invitation   model.CheckState          `json:"invitationCode"`
	EmailCheck   model.CheckState          `json:"emailCheck"`
	Verdict      wizard.Verdict            `json:"verdict"`
	ResumeOffer  *ResumeOffer              `json:"resumeOffer,omitempty"`
	Submission   model.SubmissionStatus    `json:"submission"`
	Error        string                    `json:"error,omitempty"`
	Warnings     []string                  `json:"warnings,omitempty"`
	Transition   *wizard.Transition        `json:"transition,omitempty"`
}

var profileChoices = map[string][]model.Choice{
	wizard.KeyGender:     model.GenderChoices,
	wizard.KeyBirthRange: model.BirthRangeChoices,
	wizard.KeyPosition:   model.PositionChoices,
}

// hosted is a restored session plus the service-level state stored with it
type hosted struct {
	sess  *wizard.Session
	state model.SessionState
}

// WizardService hosts wizard sessions for rendering clients. Sessions live
// in Redis between requests; work on one session is serialized.
type WizardService struct {
	api             RemoteAPI
	sessions        cache.SessionCache
	surveys         cache.SurveyCache
	auth            *AuthService
	progress        *ProgressController
	logger          *zap.Logger
	broadcaster     Broadcaster
	defaultSurveyID int64

	locks *keyedMutex

	subsMu      sync.Mutex
	submissions map[string]*SubmissionController
}

// NewWizardService creates a new wizard service
func NewWizardService(
	api RemoteAPI,
	sessions cache.SessionCache,
	surveys cache.SurveyCache,
	auth *AuthService,
	progress *ProgressController,
	defaultSurveyID int64,
	logger *zap.Logger,
) *WizardService {
	return &WizardService{
		api:             api,
		sessions:        sessions,
		surveys:         surveys,
		auth:            auth,
		progress:        progress,
		logger:          logger.Named("wizard"),
		defaultSurveyID: defaultSurveyID,
		locks:           newKeyedMutex(),
		submissions:     make(map[string]*SubmissionController),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *WizardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *WizardService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, msgType, payload)
	}
}

// loadSurvey reads through the survey cache
func (s *WizardService) loadSurvey(ctx context.Context, id int64) (*model.Survey, error) {
	survey, err := s.surveys.GetSurvey(ctx, id)
	if err != nil {
		s.logger.Warn("survey cache read failed", zap.Int64("survey_id", id), zap.Error(err))
	}
	if survey != nil {
		return survey, nil
	}

	survey, err = s.api.GetSurvey(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrSurveyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch survey: %w", err)
	}

	if err := s.surveys.SetSurvey(ctx, survey); err != nil {
		s.logger.Warn("survey cache write failed", zap.Int64("survey_id", id), zap.Error(err))
	}
	return survey, nil
}

func (s *WizardService) load(ctx context.Context, id string) (*hosted, error) {
	st, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if st == nil {
		return nil, ErrSessionNotFound
	}
	survey, err := s.loadSurvey(ctx, st.SurveyID)
	if err != nil {
		return nil, err
	}
	return &hosted{sess: wizard.Restore(survey, *st), state: *st}, nil
}

func (s *WizardService) store(ctx context.Context, h *hosted) error {
	st := h.sess.State()
	st.Offer = h.state.Offer
	st.Submission = h.state.Submission
	st.LastError = h.state.LastError
	st.CreatedAt = h.state.CreatedAt
	st.UpdatedAt = time.Now()
	if err := s.sessions.Set(ctx, &st); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	h.state = st
	return nil
}

// update runs fn on the locked session and stores the result
func (s *WizardService) update(ctx context.Context, id string, fn func(h *hosted) error) (*hosted, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(h); err != nil {
		return nil, err
	}
	if err := s.store(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *WizardService) submissionFor(id string, status model.SubmissionStatus) *SubmissionController {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	c, ok := s.submissions[id]
	if !ok {
		c = NewSubmissionController(s.api, s.progress, status, s.logger)
		s.submissions[id] = c
	}
	return c
}

func (s *WizardService) forgetSubmission(id string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	delete(s.submissions, id)
}

// Start opens a new session on surveyID (the configured survey when 0)
func (s *WizardService) Start(ctx context.Context, surveyID int64) (*model.StartSessionResponse, error) {
	if surveyID == 0 {
		surveyID = s.defaultSurveyID
	}
	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	h := &hosted{
		sess: wizard.NewSession(id, survey),
		state: model.SessionState{
			Submission: model.SubmissionPending,
			CreatedAt:  time.Now(),
		},
	}
	if err := s.store(ctx, h); err != nil {
		return nil, err
	}

	token, err := s.auth.IssueSessionToken(id, survey.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("session started", zap.String("session_id", id), zap.Int64("survey_id", survey.ID))
	return &model.StartSessionResponse{SessionID: id, Token: token}, nil
}

// View returns the current screen of a session
func (s *WizardService) View(ctx context.Context, id string) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

func (s *WizardService) view(h *hosted) *View {
	seq := h.sess.Sequencer()
	survey := h.sess.Survey()
	slot, _ := seq.Current()

	v := &View{
		SessionID:  h.sess.ID(),
		SurveyID:   survey.ID,
		SurveyName: survey.Name,
		Slot:       slot,
		Position:   seq.Position(),
		TotalSlots: seq.TotalSlots(),
		Progress:   seq.Progress(),
		Complete:   seq.IsComplete(),
		Responses:  []model.FormResponse{},
		Profile:    h.sess.Profile(),
		Invitation: h.sess.InvitationCode().State(),
		EmailCheck: h.sess.EmailCheck().State(),
		Verdict:    h.sess.Verdict(),
		Submission: h.state.Submission,
		Error:      h.state.LastError,
	}
	if v.Submission == "" {
		v.Submission = model.SubmissionPending
	}

	if v.Complete {
		// Completion screen shows every answer next to the invitation code
		v.Responses = h.sess.Ledger().Entries()
	} else {
		switch slot.Kind {
		case wizard.SlotInfo:
			v.Instructions = survey.Instructions
		case wizard.SlotProfile:
			v.Choices = profileChoices
		case wizard.SlotGroup:
			v.Group = seq.Group()
			v.Responses = h.sess.Ledger().AllForGroup(v.Group)
		}
	}

	if offer := h.state.Offer; offer != nil {
		v.ResumeOffer = &ResumeOffer{
			CurrentScreen: offer.CurrentScreen,
			Answered:      len(offer.Data.Responses),
			UpdatedAt:     offer.UpdatedAt,
		}
	}
	return v
}

// Answer records an option for a question
func (s *WizardService) Answer(ctx context.Context, id string, questionID, optionID int64) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		return h.sess.Answer(questionID, optionID)
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// SetInvitationCode edits the invitation code on the invitation screen
func (s *WizardService) SetInvitationCode(ctx context.Context, id, code string) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		if err := h.sess.EditInvitationCode(code); err != nil {
			return err
		}
		h.state.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// CheckInvitationCode validates the current code remotely. The session is
// not locked while the validator runs; a code edited meanwhile discards
// the answer.
func (s *WizardService) CheckInvitationCode(ctx context.Context, id string) (*View, error) {
	var ticket wizard.Ticket
	var started bool
	h, err := s.update(ctx, id, func(h *hosted) error {
		ticket, started = h.sess.BeginInvitationCheck()
		return nil
	})
	if err != nil || !started {
		return s.viewOrErr(h, err)
	}

	valid, checkErr := s.api.ValidateInvitationCode(ctx, ticket.Value)

	h, err = s.update(ctx, id, func(h *hosted) error {
		if checkErr != nil {
			s.logger.Warn("invitation check failed", zap.String("session_id", id), zap.Error(checkErr))
			if h.sess.FailInvitationCheck(ticket) {
				h.state.LastError = MsgCheckUnavailable
			}
			return nil
		}
		if h.sess.ResolveInvitationCheck(ticket, valid) {
			h.state.LastError = ""
		}
		return nil
	})
	return s.viewOrErr(h, err)
}

// UpdateProfile replaces the profile fields on the profile screen
func (s *WizardService) UpdateProfile(ctx context.Context, id string, p model.RespondentProfile) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		if err := h.sess.EditProfile(p); err != nil {
			return err
		}
		h.state.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// CheckEmail runs the remote "has not answered" check and, once the email
// is accepted, looks for stored progress to offer for resume.
func (s *WizardService) CheckEmail(ctx context.Context, id string) (*View, error) {
	var ticket wizard.Ticket
	var started bool
	var surveyID int64
	h, err := s.update(ctx, id, func(h *hosted) error {
		ticket, _, started = h.sess.BeginEmailCheck()
		surveyID = h.sess.Survey().ID
		return nil
	})
	if err != nil || !started {
		return s.viewOrErr(h, err)
	}

	valid, checkErr := s.api.ValidateEmail(ctx, ticket.Value, surveyID)

	var accepted bool
	h, err = s.update(ctx, id, func(h *hosted) error {
		if checkErr != nil {
			s.logger.Warn("email check failed", zap.String("session_id", id), zap.Error(checkErr))
			if h.sess.FailEmailCheck(ticket) {
				h.state.LastError = MsgCheckUnavailable
			}
			return nil
		}
		if h.sess.ResolveEmailCheck(ticket, valid) {
			h.state.LastError = ""
			accepted = valid
		}
		return nil
	})
	if err != nil || !accepted {
		return s.viewOrErr(h, err)
	}

	snap, fetchErr := s.progress.FetchForResume(ctx, ticket.Value, surveyID)
	if fetchErr != nil || snap == nil {
		return s.viewOrErr(h, nil)
	}

	h, err = s.update(ctx, id, func(h *hosted) error {
		email := h.sess.EmailCheck()
		if !email.Valid() || email.Value() != ticket.Value {
			s.progress.Resolved(ticket.Value, surveyID)
			return nil
		}
		h.state.Offer = snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	if h.state.Offer != nil {
		v := s.view(h)
		s.broadcast(id, MsgResumeOffered, v.ResumeOffer)
		return v, nil
	}
	return s.view(h), nil
}

// ResolveResume answers a pending resume offer. Accepting replaces the
// session with the stored snapshot; discarding clears earlier answers and
// keeps the profile just entered.
func (s *WizardService) ResolveResume(ctx context.Context, id string, accept bool) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		offer := h.state.Offer
		if offer == nil {
			return ErrNoResumeOffer
		}
		h.state.Offer = nil
		defer s.progress.Resolved(offer.Email, offer.SurveyID)

		if !accept {
			h.sess.StartFresh()
			return nil
		}
		if err := h.sess.ApplyResume(offer); err != nil {
			s.logger.Warn("resume rejected", zap.String("session_id", id), zap.Error(err))
			h.sess.StartFresh()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// Next validates the current screen and advances. Accepted moves are
// saved for resume; completing the last screen submits the survey.
func (s *WizardService) Next(ctx context.Context, id string) (*View, error) {
	var tr wizard.Transition
	var warnings []string
	h, err := s.update(ctx, id, func(h *hosted) error {
		if h.state.Offer != nil {
			return ErrResumePending
		}
		tr = h.sess.Next()
		if tr.Persist != nil {
			if w := s.progress.Persist(ctx, tr.Persist); w != nil {
				warnings = append(warnings, w.Message)
				s.broadcast(id, MsgProgressWarning, w)
			} else {
				s.broadcast(id, MsgProgressSaved, map[string]int{"currentScreen": tr.Persist.CurrentScreen})
			}
		}
		if tr.Completed && h.state.Submission != model.SubmissionSubmitted {
			if w := s.submit(ctx, h); w != nil {
				warnings = append(warnings, w.Message)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	v := s.view(h)
	v.Transition = &tr
	v.Warnings = warnings
	return v, nil
}

// Submit retries the submission of a completed session after a failure
func (s *WizardService) Submit(ctx context.Context, id string) (*View, error) {
	var warnings []string
	h, err := s.update(ctx, id, func(h *hosted) error {
		if !h.sess.IsComplete() {
			return ErrNotComplete
		}
		if h.state.Submission == model.SubmissionSubmitted {
			return ErrAlreadySubmitted
		}
		if w := s.submit(ctx, h); w != nil {
			warnings = append(warnings, w.Message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	v := s.view(h)
	v.Warnings = warnings
	return v, nil
}

// submit runs the latch for a completed session; caller holds the session lock
func (s *WizardService) submit(ctx context.Context, h *hosted) *Warning {
	id := h.sess.ID()
	ctrl := s.submissionFor(id, h.state.Submission)
	warning, err := ctrl.Submit(ctx, h.sess.Profile().Email, h.sess.Submission())
	h.state.Submission = ctrl.Status()
	if h.state.Submission != model.SubmissionInFlight {
		// Settled latches are rebuilt from the stored status
		s.forgetSubmission(id)
	}
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return nil
		}
		h.state.LastError = MsgSubmitError
		s.broadcast(id, MsgSubmitFailed, map[string]string{"error": MsgSubmitError})
		return nil
	}
	h.state.LastError = ""
	s.broadcast(id, MsgSubmitted, map[string]int64{"surveyId": h.sess.Survey().ID})
	return warning
}

// Back retreats one screen
func (s *WizardService) Back(ctx context.Context, id string) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		h.sess.Back()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// Reset clears the session back to the first screen
func (s *WizardService) Reset(ctx context.Context, id string) (*View, error) {
	h, err := s.update(ctx, id, func(h *hosted) error {
		if offer := h.state.Offer; offer != nil {
			s.progress.Resolved(offer.Email, offer.SurveyID)
		}
		h.sess.Reset()
		h.state.Offer = nil
		h.state.LastError = ""
		h.state.Submission = model.SubmissionPending
		s.forgetSubmission(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}

// End drops a session and its websocket connections
func (s *WizardService) End(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	s.forgetSubmission(id)
	if st, err := s.sessions.Get(ctx, id); err == nil && st != nil && st.Offer != nil {
		s.progress.Resolved(st.Offer.Email, st.Offer.SurveyID)
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(id)
	}
	return s.sessions.Delete(ctx, id)
}

func (s *WizardService) viewOrErr(h *hosted, err error) (*View, error) {
	if err != nil {
		return nil, err
	}
	return s.view(h), nil
}
