package model

import "time"

// InductionQuality is a weighted criterion contestants are scored on.
type InductionQuality struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Weightage      float64 `json:"weightage"`
	OrganisationID string  `json:"organisation_id"`
}

// InductionContestant is a candidate going through induction.
// FinalScore is nil until evaluated and never changes afterwards.
type InductionContestant struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	FinalScore      *float64 `json:"final_score,omitempty"`
	SelectionStatus string   `json:"selection_status"`
	OrganisationID  string   `json:"organisation_id"`
}

// Evaluated reports whether the contestant has a final score.
func (c *InductionContestant) Evaluated() bool {
	return c.FinalScore != nil
}

// Selection statuses.
const (
	SelectionPending  = "PENDING"
	SelectionSelected = "SELECTED"
	SelectionRejected = "REJECTED"
)

// ValidSelection reports whether s is a known selection status.
func ValidSelection(s string) bool {
	switch s {
	case SelectionPending, SelectionSelected, SelectionRejected:
		return true
	}
	return false
}

// InductionEvaluation is one contestant's score for one quality.
type InductionEvaluation struct {
	ID             string    `json:"id"`
	ContestantID   string    `json:"contestant_id"`
	QualityID      string    `json:"quality_id"`
	Score          float64   `json:"score"`
	OrganisationID string    `json:"organisation_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// QualityScore is a submitted score for a single quality.
type QualityScore struct {
	QualityID string  `json:"quality_id"`
	Score     float64 `json:"score"`
}

// Score bounds for a single quality.
const (
	MinScore = 0
	MaxScore = 10
)

// ContestantEvaluation is a contestant together with their evaluation rows.
type ContestantEvaluation struct {
	Contestant  InductionContestant   `json:"contestant"`
	Evaluations []InductionEvaluation `json:"evaluations"`
}

// InductionSummary aggregates the induction round of an organisation.
type InductionSummary struct {
	Total                int                   `json:"total"`
	Evaluated            int                   `json:"evaluated"`
	Selected             int                   `json:"selected"`
	Rejected             int                   `json:"rejected"`
	Pending              int                   `json:"pending"`
	AverageScore         *float64              `json:"average_score,omitempty"`
	AverageSelectedScore *float64              `json:"average_selected_score,omitempty"`
	Ranking              []InductionContestant `json:"ranking"`
}
