package models

import (
	"fmt"
	"strings"
)

// Label marks a translation so it can be filtered out of practice
type Label int

const (
	LabelA Label = iota + 1
	LabelB
	LabelC
	LabelD
)

// AllLabels lists every label in id order
var AllLabels = []Label{LabelA, LabelB, LabelC, LabelD}

var labelNames = [...]string{LabelA: "A", LabelB: "B", LabelC: "C", LabelD: "D"}

// labelColours are the display names stored in the labels table
var labelColours = [...]string{LabelA: "RED", LabelB: "BLACK", LabelC: "YELLOW", LabelD: "GREEN"}

// ID returns the storage id of the label
func (l Label) ID() int64 {
	return int64(l)
}

// IsValid reports whether l is one of A..D
func (l Label) IsValid() bool {
	return l >= LabelA && l <= LabelD
}

func (l Label) String() string {
	if l.IsValid() {
		return labelNames[l]
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Colour returns the display name of the label
func (l Label) Colour() string {
	if l.IsValid() {
		return labelColours[l]
	}
	return ""
}

// ParseLabel accepts a letter (A..D) or a colour name, case-insensitively
func ParseLabel(s string) (Label, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, l := range AllLabels {
		if s == labelNames[l] || s == labelColours[l] {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
}

// ParseLabels parses a comma separated list, ignoring empty entries
func ParseLabels(s string) ([]Label, error) {
	var labels []Label
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := ParseLabel(part)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}
