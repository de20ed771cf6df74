package wizard

import (
	"math"

	"encuesta/internal/model"
)

// Sequencer walks the slot list of one survey.
// Position and completion are mutually exclusive: once complete the
// position is frozen until Reset or Seek.
type Sequencer struct {
	survey   *model.Survey
	slots    []Slot
	position int
	complete bool
}

// NewSequencer builds the slot list once from the survey. A nil survey
// yields a sequencer with no slots on which every move is a no-op.
func NewSequencer(survey *model.Survey) *Sequencer {
	return &Sequencer{
		survey: survey,
		slots:  BuildSlots(survey),
	}
}

// TotalSlots is 3 + number of question groups, or 0 without a survey
func (q *Sequencer) TotalSlots() int {
	return len(q.slots)
}

func (q *Sequencer) Position() int {
	return q.position
}

func (q *Sequencer) IsComplete() bool {
	return q.complete
}

// Current returns the active slot; ok is false when there is no survey
func (q *Sequencer) Current() (Slot, bool) {
	if len(q.slots) == 0 {
		return Slot{Kind: SlotNone}, false
	}
	return q.slots[q.position], true
}

// SlotAt returns the slot at position i
func (q *Sequencer) SlotAt(i int) (Slot, bool) {
	if i < 0 || i >= len(q.slots) {
		return Slot{Kind: SlotNone}, false
	}
	return q.slots[i], true
}

// Group returns the question group payload of the current slot, or nil
func (q *Sequencer) Group() *model.QuestionGroup {
	slot, ok := q.Current()
	if !ok || slot.Kind != SlotGroup {
		return nil
	}
	return &q.survey.QuestionGroups[slot.GroupIndex]
}

// Questions returns the questions shown on the current slot
func (q *Sequencer) Questions() []model.Question {
	if g := q.Group(); g != nil {
		return g.Questions
	}
	return []model.Question{}
}

// IsLast reports whether the current slot is the final one
func (q *Sequencer) IsLast() bool {
	return len(q.slots) > 0 && q.position == len(q.slots)-1
}

// Advance moves one slot forward, or marks the sequence complete when
// called on the last slot. It reports whether anything changed; calling it
// again once complete is a no-op.
func (q *Sequencer) Advance() bool {
	if len(q.slots) == 0 || q.complete {
		return false
	}
	if q.IsLast() {
		q.complete = true
		return true
	}
	q.position++
	return true
}

// Retreat moves one slot back, floored at 0
func (q *Sequencer) Retreat() bool {
	if q.complete || q.position == 0 {
		return false
	}
	q.position--
	return true
}

// Seek jumps to position pos clamped into the slot range and clears completion
func (q *Sequencer) Seek(pos int) {
	q.complete = false
	if len(q.slots) == 0 {
		q.position = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(q.slots)-1 {
		pos = len(q.slots) - 1
	}
	q.position = pos
}

// Reset returns to the first slot and clears completion
func (q *Sequencer) Reset() {
	q.position = 0
	q.complete = false
}

// Progress is the completion percentage shown to the respondent
func (q *Sequencer) Progress() int {
	if q.complete {
		return 100
	}
	if len(q.slots) == 0 {
		return 0
	}
	p := math.Round(float64(q.position+1) / float64(len(q.slots)) * 100)
	return int(math.Min(p, 100))
}
