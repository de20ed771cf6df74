package wizard

import "encuesta/internal/model"

// Check tracks an input that must be confirmed by a remote validator.
// Editing the value discards any earlier verdict, and a verdict for a
// superseded value is ignored when it arrives.
type Check struct {
	value      string
	status     model.CheckStatus
	generation uint64
}

// Ticket identifies one remote check request
type Ticket struct {
	Generation uint64 `json:"generation"`
	Value      string `json:"value"`
}

func (c *Check) Value() string {
	return c.value
}

func (c *Check) Status() model.CheckStatus {
	if c.status == "" {
		return model.CheckUnchecked
	}
	return c.status
}

func (c *Check) Valid() bool {
	return c.status == model.CheckValid
}

// Edit sets a new value. Changing the value resets the check.
func (c *Check) Edit(value string) bool {
	if value == c.value {
		return false
	}
	c.value = value
	c.status = model.CheckUnchecked
	c.generation++
	return true
}

// Begin marks a remote check as in flight. It returns false when the
// value is empty or was already accepted, in which case no request is needed.
func (c *Check) Begin() (Ticket, bool) {
	if c.value == "" || c.status == model.CheckValid {
		return Ticket{}, false
	}
	c.status = model.CheckPending
	return Ticket{Generation: c.generation, Value: c.value}, true
}

// Resolve applies a remote verdict. It reports false and changes nothing
// when the value was edited after the ticket was issued.
func (c *Check) Resolve(t Ticket, valid bool) bool {
	if t.Generation != c.generation || t.Value != c.value {
		return false
	}
	if valid {
		c.status = model.CheckValid
	} else {
		c.status = model.CheckInvalid
	}
	return true
}

// Fail returns an in-flight check to unchecked when the validator could
// not be reached, so the respondent can try again.
func (c *Check) Fail(t Ticket) bool {
	if t.Generation != c.generation || t.Value != c.value {
		return false
	}
	c.status = model.CheckUnchecked
	return true
}

// Accept marks value as valid without a remote round trip
func (c *Check) Accept(value string) {
	c.Edit(value)
	c.status = model.CheckValid
}

func (c *Check) Clear() {
	c.value = ""
	c.status = model.CheckUnchecked
	c.generation++
}

func (c *Check) State() model.CheckState {
	return model.CheckState{Value: c.value, Status: c.Status(), Generation: c.generation}
}

func restoreCheck(st model.CheckState) Check {
	return Check{value: st.Value, status: st.Status, generation: st.Generation}
}
