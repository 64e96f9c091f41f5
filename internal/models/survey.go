package models

import "time"

// Survey is a questionnaire given to participants.
type Survey struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SurveyQuestion is one weighted question on a survey.
type SurveyQuestion struct {
	ID       int     `json:"id"`
	SurveyID int     `json:"survey_id"`
	Prompt   string  `json:"prompt"`
	Weight   float64 `json:"weight"`
}

// SurveyResponse is one participant's submission for a survey.
type SurveyResponse struct {
	ID            int       `json:"id"`
	SurveyID      int       `json:"survey_id"`
	ParticipantID int       `json:"participant_id"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// SurveyAnswer is a per-question score within a response.
type SurveyAnswer struct {
	ResponseID int     `json:"response_id"`
	QuestionID int     `json:"question_id"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"` // denormalized from the question for scoring
}
