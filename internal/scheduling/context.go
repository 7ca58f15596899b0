package scheduling

import "time"

// ContextSnapshot is the per-cycle bag of facts conditions are evaluated
// against. It is supplied by the context provider collaborator and never
// persisted here.
type ContextSnapshot struct {
	TakenAt          time.Time `json:"taken_at"`
	Weather          string    `json:"weather"`
	CalendarTitles   []string  `json:"calendar_titles"`
	SleepDebtMinutes float64   `json:"sleep_debt_minutes"`
	ActivityTags     []string  `json:"activity_tags"`
}
