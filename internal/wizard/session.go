package wizard

import (
	"errors"
	"fmt"
	"strings"

	"encuesta/internal/model"
)

var (
	ErrNoSurvey         = errors.New("survey not loaded")
	ErrSessionComplete  = errors.New("session already complete")
	ErrUnknownQuestion  = errors.New("question not in survey")
	ErrUnknownOption    = errors.New("option not in question")
	ErrSnapshotMismatch = errors.New("snapshot belongs to another survey")
	ErrWrongSlot        = errors.New("field not editable on this screen")
)

// Transition describes the outcome of Next. Persist is the snapshot the
// caller should save, nil when there is nothing to save.
type Transition struct {
	From      Slot                    `json:"from"`
	To        Slot                    `json:"to"`
	Advanced  bool                    `json:"advanced"`
	Completed bool                    `json:"completed"`
	Verdict   Verdict                 `json:"verdict"`
	Persist   *model.ProgressSnapshot `json:"-"`
}

// Session is the state of one respondent walking one survey. All
// mutation goes through its methods so the invariants hold in one place.
// A Session is not safe for concurrent use.
type Session struct {
	id      string
	survey  *model.Survey
	seq     *Sequencer
	ledger  *Ledger
	profile model.RespondentProfile
	code    Check
	email   Check
}

// NewSession starts a session at the first slot
func NewSession(id string, survey *model.Survey) *Session {
	return &Session{
		id:     id,
		survey: survey,
		seq:    NewSequencer(survey),
		ledger: NewLedger(),
	}
}

// Restore rebuilds a session from its serialized state
func Restore(survey *model.Survey, st model.SessionState) *Session {
	s := NewSession(st.ID, survey)
	s.seq.Seek(st.Position)
	s.seq.complete = st.Complete && s.seq.TotalSlots() > 0
	s.ledger.Replace(st.Responses)
	s.profile = st.Profile
	s.code = restoreCheck(st.InvitationCode)
	s.email = restoreCheck(st.EmailCheck)
	return s
}

// State serializes the wizard part of the session
func (s *Session) State() model.SessionState {
	st := model.SessionState{
		ID:             s.id,
		Position:       s.seq.Position(),
		Complete:       s.seq.IsComplete(),
		Responses:      s.ledger.Entries(),
		Profile:        s.profile,
		InvitationCode: s.code.State(),
		EmailCheck:     s.email.State(),
	}
	if s.survey != nil {
		st.SurveyID = s.survey.ID
	}
	return st
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Survey() *model.Survey {
	return s.survey
}

func (s *Session) Sequencer() *Sequencer {
	return s.seq
}

func (s *Session) Ledger() *Ledger {
	return s.ledger
}

func (s *Session) Profile() model.RespondentProfile {
	return s.profile
}

func (s *Session) InvitationCode() *Check {
	return &s.code
}

func (s *Session) EmailCheck() *Check {
	return &s.email
}

func (s *Session) IsComplete() bool {
	return s.seq.IsComplete()
}

// Answer records the option chosen for a question
func (s *Session) Answer(questionID, optionID int64) error {
	if s.survey == nil {
		return ErrNoSurvey
	}
	if s.seq.IsComplete() {
		return ErrSessionComplete
	}
	q, ok := s.survey.FindQuestion(questionID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	opt, ok := q.Option(optionID)
	if !ok {
		return fmt.Errorf("%w: question %d option %d", ErrUnknownOption, questionID, optionID)
	}
	s.ledger.Upsert(questionID, &opt.ID, opt.Text)
	return nil
}

// editableOn reports whether inputs owned by slot kind may change now
func (s *Session) editableOn(kind SlotKind) error {
	if s.survey == nil {
		return ErrNoSurvey
	}
	if s.seq.IsComplete() {
		return ErrSessionComplete
	}
	if slot, ok := s.seq.Current(); !ok || slot.Kind != kind {
		return fmt.Errorf("%w: %s while on %s", ErrWrongSlot, kind, slot)
	}
	return nil
}

// EditInvitationCode changes the code; a changed code must be checked again.
// Only the invitation code screen may change it.
func (s *Session) EditInvitationCode(code string) error {
	if err := s.editableOn(SlotInvitationCode); err != nil {
		return err
	}
	s.code.Edit(strings.TrimSpace(code))
	return nil
}

// BeginInvitationCheck starts a remote check of the current code
func (s *Session) BeginInvitationCheck() (Ticket, bool) {
	return s.code.Begin()
}

// ResolveInvitationCheck applies the validator's answer for t
func (s *Session) ResolveInvitationCheck(t Ticket, valid bool) bool {
	return s.code.Resolve(t, valid)
}

// FailInvitationCheck records that the validator could not be reached
func (s *Session) FailInvitationCheck(t Ticket) bool {
	return s.code.Fail(t)
}

// EditProfile replaces the profile fields. Changing the email invalidates
// its check. Only the profile screen may change them.
func (s *Session) EditProfile(p model.RespondentProfile) error {
	if err := s.editableOn(SlotProfile); err != nil {
		return err
	}
	p.Email = strings.TrimSpace(p.Email)
	s.profile = p
	s.email.Edit(p.Email)
	return nil
}

// BeginEmailCheck starts the remote "has not answered yet" check. A
// malformed or empty email returns a failing verdict and no ticket.
func (s *Session) BeginEmailCheck() (Ticket, Verdict, bool) {
	if v := CheckEmail(&s.email); v.Errors[KeyEmail] == MsgEmailRequired || v.Errors[KeyEmail] == MsgEmailMalformed {
		return Ticket{}, v, false
	}
	t, ok := s.email.Begin()
	return t, CheckEmail(&s.email), ok
}

// ResolveEmailCheck applies the validator's answer for t
func (s *Session) ResolveEmailCheck(t Ticket, valid bool) bool {
	return s.email.Resolve(t, valid)
}

// FailEmailCheck records that the validator could not be reached
func (s *Session) FailEmailCheck(t Ticket) bool {
	return s.email.Fail(t)
}

// Verdict validates the current slot
func (s *Session) Verdict() Verdict {
	slot, ok := s.seq.Current()
	if !ok || s.seq.IsComplete() {
		return Verdict{}
	}
	switch slot.Kind {
	case SlotInvitationCode:
		return CheckInvitation(&s.code)
	case SlotProfile:
		return CheckProfile(s.profile, &s.email)
	case SlotGroup:
		return CheckGroup(&s.survey.QuestionGroups[slot.GroupIndex], s.ledger)
	default:
		return Verdict{}
	}
}

// Next advances when the current slot validates. On the last slot it
// completes the session. The returned transition carries the snapshot to
// persist for every accepted move that did not complete the session.
func (s *Session) Next() Transition {
	from, ok := s.seq.Current()
	tr := Transition{From: from, To: from, Completed: s.seq.IsComplete()}
	if !ok || s.seq.IsComplete() {
		return tr
	}
	tr.Verdict = s.Verdict()
	if !tr.Verdict.OK() {
		return tr
	}
	tr.Advanced = s.seq.Advance()
	tr.To, _ = s.seq.Current()
	tr.Completed = s.seq.IsComplete()
	if tr.Advanced && !tr.Completed {
		tr.Persist = s.Snapshot()
	}
	return tr
}

// Back retreats one slot
func (s *Session) Back() bool {
	return s.seq.Retreat()
}

// Snapshot captures the state to persist. It is nil until both the
// respondent email and the survey are known.
func (s *Session) Snapshot() *model.ProgressSnapshot {
	if s.survey == nil || s.profile.Email == "" {
		return nil
	}
	profile := s.profile
	snap := &model.ProgressSnapshot{
		Email:         s.profile.Email,
		SurveyID:      s.survey.ID,
		CurrentScreen: s.seq.Position(),
		Data: model.ProgressData{
			EmailResponse: &profile,
			Responses:     s.ledger.Entries(),
		},
	}
	if s.code.Value() != "" {
		snap.Data.GuestCodeResponse = &model.InvitationCode{GuestCode: s.code.Value()}
	}
	return snap
}

// ApplyResume replaces position, answers, profile and invitation code
// with those of a stored snapshot. Profile fields are sanitized first.
func (s *Session) ApplyResume(snap *model.ProgressSnapshot) error {
	if s.survey == nil {
		return ErrNoSurvey
	}
	if snap.SurveyID != s.survey.ID {
		return fmt.Errorf("%w: %d != %d", ErrSnapshotMismatch, snap.SurveyID, s.survey.ID)
	}

	profile := model.RespondentProfile{Email: snap.Email}
	if snap.Data.EmailResponse != nil {
		profile = *snap.Data.EmailResponse
	}
	profile = SanitizeProfile(profile)
	if profile.Email == "" {
		profile.Email = Sanitize(snap.Email)
	}

	var answers []model.FormResponse
	for _, r := range snap.Data.Responses {
		if _, ok := s.survey.FindQuestion(r.QuestionID); ok {
			answers = append(answers, r)
		}
	}

	s.seq.Seek(snap.CurrentScreen)
	s.ledger.Replace(answers)
	s.profile = profile
	// Both inputs were accepted before the snapshot could be written
	s.email.Accept(profile.Email)
	if snap.Data.GuestCodeResponse != nil && snap.Data.GuestCodeResponse.GuestCode != "" {
		s.code.Accept(snap.Data.GuestCodeResponse.GuestCode)
	} else {
		s.code.Clear()
	}
	return nil
}

// StartFresh discards earlier answers while keeping the profile and
// invitation code just entered; the next group shown is the first one.
func (s *Session) StartFresh() {
	s.ledger.Clear()
	if s.seq.IsComplete() || s.seq.Position() > ProfileSlotIndex {
		s.seq.Seek(ProfileSlotIndex)
	}
}

// Reset clears everything and returns to the first slot
func (s *Session) Reset() {
	s.seq.Reset()
	s.ledger.Clear()
	s.profile = model.RespondentProfile{}
	s.code.Clear()
	s.email.Clear()
}

// Submission builds the final payload. Answers follow survey question
// order and skip entries without an option id.
func (s *Session) Submission() model.SubmissionPayload {
	p := model.SubmissionPayload{
		InvitationCode: s.code.Value(),
		Participant:    model.ParticipantFrom(s.profile),
		Answers:        []int64{},
	}
	if s.survey != nil {
		p.SurveyID = s.survey.ID
		p.Answers = s.ledger.OptionIDs(s.survey.AllQuestions())
	}
	return p
}
