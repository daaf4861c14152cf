package models

import "time"

// Statistics summarises the answers log
type Statistics struct {
	TotalTranslations int       `json:"total_translations" db:"total_translations"`
	TotalAnswers      int       `json:"total_answers" db:"total_answers"`
	CorrectAnswers    int       `json:"correct_answers" db:"correct_answers"`
	IncorrectAnswers  int       `json:"incorrect_answers" db:"incorrect_answers"`
	AnsweredToday     int       `json:"answered_today" db:"answered_today"`
	Since             time.Time `json:"since" db:"-"`
}

// Accuracy returns the share of correct answers in percent
func (s Statistics) Accuracy() int {
	if s.TotalAnswers == 0 {
		return 0
	}
	return s.CorrectAnswers * 100 / s.TotalAnswers
}
