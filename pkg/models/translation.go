package models

import (
	"fmt"
	"strings"
	"time"
)

// Translation represents a foreign word paired with its native meaning
type Translation struct {
	ID          int64    `json:"id" db:"id"` // 0 until persisted
	ForeignWord string   `json:"foreign_word" db:"foreign_word"`
	NativeWord  string   `json:"native_word" db:"native_word"`
	Metadata    Metadata `json:"metadata" db:"-"`
}

// NewTranslation creates an unpersisted translation with empty metadata
func NewTranslation(foreignWord, nativeWord string) Translation {
	return Translation{
		ForeignWord: foreignWord,
		NativeWord:  nativeWord,
	}
}

// IsPersisted reports whether the translation has an id assigned by storage
func (t Translation) IsPersisted() bool {
	return t.ID > 0
}

// Key identifies a translation for deduplication, independent of its id
func (t Translation) Key() TranslationKey {
	return TranslationKey{ForeignWord: t.ForeignWord, NativeWord: t.NativeWord}
}

// Equal compares the foreign/native pair only
func (t Translation) Equal(other Translation) bool {
	return t.Key() == other.Key()
}

func (t Translation) String() string {
	return fmt.Sprintf("%s - %s", t.ForeignWord, t.NativeWord)
}

// TranslationKey is the (foreign, native) pair that must be unique in storage
type TranslationKey struct {
	ForeignWord string
	NativeWord  string
}

// Metadata holds the answer history and labels attached to a translation
type Metadata struct {
	Answers []AnswerRecord `json:"answers"`
	Labels  []Label        `json:"labels"`
}

// LastAnswer returns the most recent answer, if any
func (m Metadata) LastAnswer() (AnswerRecord, bool) {
	if len(m.Answers) == 0 {
		return AnswerRecord{}, false
	}
	return m.Answers[len(m.Answers)-1], true
}

// HasLabel reports whether the label is attached
func (m Metadata) HasLabel(label Label) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't alias each other's history
func (m Metadata) Clone() Metadata {
	c := Metadata{}
	if m.Answers != nil {
		c.Answers = append([]AnswerRecord(nil), m.Answers...)
	}
	if m.Labels != nil {
		c.Labels = append([]Label(nil), m.Labels...)
	}
	return c
}

// AnswerRecord is a single logged answer
type AnswerRecord struct {
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

// NewAnswer is a shorthand used by importers and tests
func NewAnswer(outcome Outcome, at time.Time) AnswerRecord {
	return AnswerRecord{Outcome: outcome, At: at}
}

// Outcome is the result of asking a translation
type Outcome int

const (
	Incorrect Outcome = iota
	Correct
)

// String returns "correct" or "incorrect"
func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// IsValid reports whether o is Correct or Incorrect
func (o Outcome) IsValid() bool {
	return o == Correct || o == Incorrect
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOutcome accepts "correct"/"incorrect" and the short forms y/n
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "y", "yes", "+":
		return Correct, nil
	case "incorrect", "n", "no", "-":
		return Incorrect, nil
	}
	return Incorrect, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}
