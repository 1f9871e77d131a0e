package form

import (
	"maps"
	"slices"
	"strings"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"
)

// LabelsForm is the Labels step. Unlike the other steps it has no
// required top-level field: completing it always succeeds.
type LabelsForm struct {
	labels []domain.Label
	errors Errors
	newID  func() string
}

// NewLabelsForm starts the Labels step. A nil initial sequence seeds the
// default labels; an empty non-nil one is kept empty.
func NewLabelsForm(initial []domain.Label, newID func() string) *LabelsForm {
	labels := domain.DefaultLabels()
	if initial != nil {
		labels = slices.Clone(initial)
	}
	return &LabelsForm{labels: labels, errors: Errors{}, newID: newID}
}

// Add appends a label. Name and a #RRGGBB color are both required;
// duplicate names are appended, never merged.
func (l *LabelsForm) Add(name, color string) (domain.Label, Errors) {
	errs := Errors{}
	name = strings.TrimSpace(name)
	color = strings.TrimSpace(color)
	if name == "" {
		errs["labelName"] = "Label name is required"
	}
	if !hexColorPattern.MatchString(color) {
		errs["color"] = "Please select a color"
	}
	l.errors = errs
	if len(errs) > 0 {
		return domain.Label{}, errs
	}

	label := domain.Label{ID: l.newID(), Name: name, Color: color}
	l.labels = append(l.labels, label)
	return label, nil
}

// Remove deletes every label with id. Unknown ids are ignored.
func (l *LabelsForm) Remove(id string) {
	l.labels = slices.DeleteFunc(l.labels, func(lb domain.Label) bool {
		return lb.ID == id
	})
}

// Labels returns a copy of the current sequence.
func (l *LabelsForm) Labels() []domain.Label {
	return slices.Clone(l.labels)
}

// Complete emits the current sequence verbatim, including zero labels.
func (l *LabelsForm) Complete() domain.LabelsData {
	out := slices.Clone(l.labels)
	if out == nil {
		out = []domain.Label{}
	}
	return domain.LabelsData{Labels: out}
}

// State renders the step.
func (l *LabelsForm) State() domain.LabelsState {
	st := domain.LabelsState{Labels: l.Labels()}
	if st.Labels == nil {
		st.Labels = []domain.Label{}
	}
	if len(l.errors) > 0 {
		st.Errors = maps.Clone(map[string]string(l.errors))
	}
	return st
}
