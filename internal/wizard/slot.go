// Package wizard holds the screen-sequencing state machine of the survey
// wizard. Everything here is synchronous and free of I/O: transitions
// describe the side effects they need and the caller performs them.
package wizard

import (
	"fmt"

	"encuesta/internal/model"
)

// SlotKind identifies what a screen slot shows
type SlotKind string

const (
	SlotNone           SlotKind = ""
	SlotInfo           SlotKind = "survey_info"
	SlotInvitationCode SlotKind = "invitation_code"
	SlotProfile        SlotKind = "profile"
	SlotGroup          SlotKind = "question_group"
)

// Fixed slot indexes before the first question group
const (
	InfoSlotIndex           = 0
	InvitationCodeSlotIndex = 1
	ProfileSlotIndex        = 2
	firstGroupSlotIndex     = 3
)

// Slot is one addressable screen position. GroupIndex is meaningful only for SlotGroup.
type Slot struct {
	Kind       SlotKind `json:"kind"`
	GroupIndex int      `json:"groupIndex"`
}

func (s Slot) String() string {
	if s.Kind == SlotGroup {
		return fmt.Sprintf("%s(%d)", s.Kind, s.GroupIndex)
	}
	return string(s.Kind)
}

// BuildSlots derives the ordered slot list from the survey shape:
// info, invitation code, profile, then one slot per question group.
func BuildSlots(survey *model.Survey) []Slot {
	if survey == nil {
		return nil
	}
	slots := make([]Slot, 0, firstGroupSlotIndex+len(survey.QuestionGroups))
	slots = append(slots,
		Slot{Kind: SlotInfo},
		Slot{Kind: SlotInvitationCode},
		Slot{Kind: SlotProfile},
	)
	for i := range survey.QuestionGroups {
		slots = append(slots, Slot{Kind: SlotGroup, GroupIndex: i})
	}
	return slots
}

// GroupSlotIndex returns the slot position of question group i
func GroupSlotIndex(i int) int {
	return firstGroupSlotIndex + i
}
