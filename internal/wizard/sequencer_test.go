package wizard

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSlots(t *testing.T) {
	slots := BuildSlots(testSurvey())
	require.Len(t, slots, 5)
	assert.Equal(t, SlotInfo, slots[InfoSlotIndex].Kind)
	assert.Equal(t, SlotInvitationCode, slots[InvitationCodeSlotIndex].Kind)
	assert.Equal(t, SlotProfile, slots[ProfileSlotIndex].Kind)
	assert.Equal(t, Slot{Kind: SlotGroup, GroupIndex: 0}, slots[GroupSlotIndex(0)])
	assert.Equal(t, Slot{Kind: SlotGroup, GroupIndex: 1}, slots[GroupSlotIndex(1)])
	assert.Equal(t, "question_group(1)", slots[4].String())
}

func TestSequencerNilSurvey(t *testing.T) {
	q := NewSequencer(nil)
	assert.Equal(t, 0, q.TotalSlots())
	slot, ok := q.Current()
	assert.False(t, ok)
	assert.Equal(t, SlotNone, slot.Kind)
	assert.Empty(t, q.Questions())
	assert.Nil(t, q.Group())
	assert.False(t, q.Advance())
	assert.False(t, q.IsComplete())
	assert.Equal(t, 0, q.Progress())
}

func TestSequencerWalk(t *testing.T) {
	q := NewSequencer(testSurvey())
	require.Equal(t, 5, q.TotalSlots())

	for i := 0; i < 4; i++ {
		require.True(t, q.Advance())
	}
	slot, _ := q.Current()
	assert.Equal(t, Slot{Kind: SlotGroup, GroupIndex: 1}, slot)
	assert.True(t, q.IsLast())
	assert.Equal(t, "TEMA 2 - Prioridades", q.Group().Name)
	assert.Len(t, q.Questions(), 2)

	require.True(t, q.Advance())
	assert.True(t, q.IsComplete())
	assert.Equal(t, 100, q.Progress())

	// Completion is idempotent and freezes the position
	assert.False(t, q.Advance())
	assert.False(t, q.Retreat())
	assert.True(t, q.IsComplete())
	assert.Equal(t, 4, q.Position())

	q.Reset()
	assert.False(t, q.IsComplete())
	assert.Equal(t, 0, q.Position())
}

func TestSequencerRetreatFloor(t *testing.T) {
	q := NewSequencer(testSurvey())
	assert.False(t, q.Retreat())
	assert.Equal(t, 0, q.Position())
}

func TestSequencerStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	q := NewSequencer(testSurvey())
	for i := 0; i < 2000; i++ {
		if q.IsComplete() {
			q.Reset()
		}
		if rng.Intn(2) == 0 {
			q.Advance()
		} else {
			q.Retreat()
		}
		require.GreaterOrEqual(t, q.Position(), 0)
		require.LessOrEqual(t, q.Position(), q.TotalSlots()-1)
	}
}

func TestSequencerSeekClamps(t *testing.T) {
	q := NewSequencer(testSurvey())
	q.Seek(42)
	assert.Equal(t, 4, q.Position())
	q.Seek(-3)
	assert.Equal(t, 0, q.Position())
}

func TestSequencerProgress(t *testing.T) {
	q := NewSequencer(testSurvey())
	assert.Equal(t, 20, q.Progress())
	q.Seek(2)
	assert.Equal(t, 60, q.Progress())
}
