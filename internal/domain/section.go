package domain

import (
	"encoding/json"
	"fmt"
)

// Section is the accordion's open section: either Closed or Open(step).
// The zero value is Closed.
type Section struct {
	step Step
}

// Closed returns the all-collapsed section state.
func Closed() Section {
	return Section{}
}

// Open returns the state with exactly one step expanded.
func Open(step Step) Section {
	return Section{step: step}
}

// Step returns the open step, or false when the accordion is closed.
func (s Section) Step() (Step, bool) {
	if !s.step.Valid() {
		return 0, false
	}
	return s.step, true
}

// IsOpen reports whether step is the expanded section.
func (s Section) IsOpen(step Step) bool {
	open, ok := s.Step()
	return ok && open == step
}

func (s Section) String() string {
	if step, ok := s.Step(); ok {
		return fmt.Sprintf("open(%s)", step)
	}
	return "closed"
}

type sectionJSON struct {
	State string `json:"state"`
	Step  Step   `json:"step,omitempty"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	if step, ok := s.Step(); ok {
		return json.Marshal(sectionJSON{State: "open", Step: step})
	}
	return json.Marshal(sectionJSON{State: "closed"})
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var raw sectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.State {
	case "closed", "":
		*s = Closed()
	case "open":
		if !raw.Step.Valid() {
			return fmt.Errorf("section: invalid step %d", raw.Step)
		}
		*s = Open(raw.Step)
	default:
		return fmt.Errorf("section: unknown state %q", raw.State)
	}
	return nil
}
