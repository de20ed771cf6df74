package wizard

import "encuesta/internal/model"

// Ledger keeps at most one answer per question. Insertion order is kept
// only so payloads are stable; lookups always go by question id.
type Ledger struct {
	entries []model.FormResponse
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Upsert replaces the entry for questionID or appends a new one
func (l *Ledger) Upsert(questionID int64, optionID *int64, answer string) {
	entry := model.FormResponse{QuestionID: questionID, Answer: answer}
	if optionID != nil {
		id := *optionID
		entry.OptionID = &id
	}
	for i := range l.entries {
		if l.entries[i].QuestionID == questionID {
			l.entries[i] = entry
			return
		}
	}
	l.entries = append(l.entries, entry)
}

// Get returns the entry for questionID
func (l *Ledger) Get(questionID int64) (model.FormResponse, bool) {
	for _, e := range l.entries {
		if e.QuestionID == questionID {
			return e, true
		}
	}
	return model.FormResponse{}, false
}

// AllForGroup returns the entries answering questions of g
func (l *Ledger) AllForGroup(g *model.QuestionGroup) []model.FormResponse {
	ids := g.QuestionIDs()
	var out []model.FormResponse
	for _, e := range l.entries {
		if _, ok := ids[e.QuestionID]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (l *Ledger) Clear() {
	l.entries = nil
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the ledger
func (l *Ledger) Entries() []model.FormResponse {
	out := make([]model.FormResponse, 0, len(l.entries))
	for _, e := range l.entries {
		if e.OptionID != nil {
			id := *e.OptionID
			e.OptionID = &id
		}
		out = append(out, e)
	}
	return out
}

// Replace swaps the whole ledger, collapsing repeated question ids to the last one seen
func (l *Ledger) Replace(entries []model.FormResponse) {
	l.Clear()
	for _, e := range entries {
		l.Upsert(e.QuestionID, e.OptionID, e.Answer)
	}
}

// OptionIDs lists selected option ids in the order of questions,
// skipping unanswered questions and entries without an option id.
func (l *Ledger) OptionIDs(questions []model.Question) []int64 {
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		e, ok := l.Get(q.ID)
		if !ok || e.OptionID == nil {
			continue
		}
		ids = append(ids, *e.OptionID)
	}
	return ids
}
