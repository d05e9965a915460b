package payroll

import "time"

// Period is one liquidation window. Number is the ordinal within the month,
// 1 or 2 for biweekly companies and always 1 for monthly ones.
type Period struct {
	ID                   string
	CompanyID            string
	Year                 int
	Month                int
	Number               int
	InitialDate          time.Time
	EndDate              time.Time
	PreviousPeriodYear   int
	PreviousPeriodNumber int
	IsActive             bool
}

// Job is the message consumed from the queue. One job means one employee
// liquidated for one period. Attempts counts how many times the job has
// already been tried, so a failing job is not retried forever.
type Job struct {
	EmployeeID string `json:"employeeId"`
	CompanyID  string `json:"companyId"`
	PeriodID   string `json:"periodId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	RequestID  string `json:"requestId,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
}

// StatusEvent is published after each job attempt so upstream services can
// track calculation progress.
type StatusEvent struct {
	EmployeeID string    `json:"employeeId"`
	PeriodID   string    `json:"periodId"`
	RequestID  string    `json:"requestId,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
