package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encuesta/internal/model"
)

func TestCheckFailAllowsRetry(t *testing.T) {
	var c Check
	c.Edit("ABC123")
	ticket, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, model.CheckPending, c.Status())

	require.True(t, c.Fail(ticket))
	assert.Equal(t, model.CheckUnchecked, c.Status())

	_, ok = c.Begin()
	assert.True(t, ok)
}

func TestCheckStateRoundTrip(t *testing.T) {
	var c Check
	c.Edit("ABC123")
	ticket, _ := c.Begin()

	restored := restoreCheck(c.State())
	assert.True(t, restored.Resolve(ticket, true), "ticket survives serialization")
	assert.True(t, restored.Valid())
}
