package wizard

import (
	"regexp"
	"strconv"
	"strings"

	"encuesta/internal/model"
)

// Error keys for fields that are not questions
const (
	KeyInvitationCode = "invitationCode"
	KeyEmail          = "email"
	KeyName           = "name"
	KeyGender         = "gender"
	KeyBirthRange     = "birthRange"
	KeyPosition       = "position"
	KeyGroup          = "group"
)

// Messages shown to the respondent
const (
	MsgCodeRequired       = "El código de invitado es obligatorio"
	MsgCodeInvalid        = "El código de invitado no es válido"
	MsgCodeUnchecked      = "Debes validar el código de invitado"
	MsgNameRequired       = "El nombre es obligatorio"
	MsgEmailRequired      = "El email es obligatorio"
	MsgEmailMalformed     = "Por favor, ingresa un email válido"
	MsgEmailInvalid       = "El email no es válido"
	MsgEmailUnchecked     = "Debes validar el email antes de continuar"
	MsgGenderRequired     = "Debes seleccionar tu género"
	MsgBirthRangeRequired = "Debes seleccionar tu rango de nacimiento"
	MsgPositionRequired   = "Debes seleccionar tu posición"
	MsgAnswerRequired     = "Esta pregunta es obligatoria"
	MsgDuplicateAnswer    = "No puedes repetir la misma respuesta"
	MsgGroupDuplicates    = "Cada pregunta debe tener una respuesta distinta"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Verdict is the advisory result of validating a slot. Errors maps a
// question id (decimal) or field key to a message. Blocked means the
// "next" control must be rendered disabled rather than pressed.
type Verdict struct {
	Errors  map[string]string `json:"errors,omitempty"`
	Blocked bool              `json:"blocked"`
}

// OK reports whether the transition is permitted
func (v Verdict) OK() bool {
	return len(v.Errors) == 0 && !v.Blocked
}

func (v *Verdict) add(key, msg string) {
	if v.Errors == nil {
		v.Errors = make(map[string]string)
	}
	v.Errors[key] = msg
}

// QuestionKey is the error key for a question id
func QuestionKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ValidEmailFormat reports whether s looks like an email address
func ValidEmailFormat(s string) bool {
	return emailPattern.MatchString(s)
}

// CheckInvitation passes only once the current code was confirmed remotely
func CheckInvitation(code *Check) Verdict {
	var v Verdict
	switch {
	case strings.TrimSpace(code.Value()) == "":
		v.add(KeyInvitationCode, MsgCodeRequired)
	case code.Status() == model.CheckInvalid:
		v.add(KeyInvitationCode, MsgCodeInvalid)
	case !code.Valid():
		v.add(KeyInvitationCode, MsgCodeUnchecked)
	}
	v.Blocked = !code.Valid()
	return v
}

// CheckEmail validates the email field alone, including its remote check
func CheckEmail(email *Check) Verdict {
	var v Verdict
	value := strings.TrimSpace(email.Value())
	switch {
	case value == "":
		v.add(KeyEmail, MsgEmailRequired)
	case !ValidEmailFormat(value):
		v.add(KeyEmail, MsgEmailMalformed)
	case email.Status() == model.CheckInvalid:
		v.add(KeyEmail, MsgEmailInvalid)
	case !email.Valid():
		v.add(KeyEmail, MsgEmailUnchecked)
	}
	v.Blocked = !email.Valid()
	return v
}

// CheckProfile validates every profile field
func CheckProfile(p model.RespondentProfile, email *Check) Verdict {
	v := CheckEmail(email)
	if strings.TrimSpace(p.Name) == "" {
		v.add(KeyName, MsgNameRequired)
	}
	if !model.IsChoice(model.GenderChoices, p.Gender) {
		v.add(KeyGender, MsgGenderRequired)
	}
	if !model.IsChoice(model.BirthRangeChoices, p.BirthRange) {
		v.add(KeyBirthRange, MsgBirthRangeRequired)
	}
	if !model.IsChoice(model.PositionChoices, p.Position) {
		v.add(KeyPosition, MsgPositionRequired)
	}
	return v
}

// CheckGroup requires an option for every question of g and, for groups
// tagged unique, distinct answers across the group.
func CheckGroup(g *model.QuestionGroup, l *Ledger) Verdict {
	var v Verdict
	for _, q := range g.Questions {
		e, ok := l.Get(q.ID)
		if !ok || !e.HasOption() {
			v.add(QuestionKey(q.ID), MsgAnswerRequired)
		}
	}
	if g.HasModifier(model.ModifierUnique) {
		dups := Duplicates(g, l)
		for id := range dups {
			v.add(QuestionKey(id), MsgDuplicateAnswer)
		}
		if len(dups) > 0 {
			v.add(KeyGroup, MsgGroupDuplicates)
			v.Blocked = true
		}
	}
	return v
}

// Duplicates returns the ids of questions in g whose answer is shared
// with another question of g, by option id or by answer text.
func Duplicates(g *model.QuestionGroup, l *Ledger) map[int64]struct{} {
	byOption := make(map[int64][]int64)
	byText := make(map[string][]int64)
	for _, e := range l.AllForGroup(g) {
		if e.OptionID != nil {
			byOption[*e.OptionID] = append(byOption[*e.OptionID], e.QuestionID)
		}
		if t := normalizeAnswer(e.Answer); t != "" {
			byText[t] = append(byText[t], e.QuestionID)
		}
	}

	dups := make(map[int64]struct{})
	collect := func(ids []int64) {
		if len(ids) < 2 {
			return
		}
		for _, id := range ids {
			dups[id] = struct{}{}
		}
	}
	for _, ids := range byOption {
		collect(ids)
	}
	for _, ids := range byText {
		collect(ids)
	}
	return dups
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
