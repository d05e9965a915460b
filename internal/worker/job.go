package worker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
)

// flexInt accepts both JSON numbers and numeric strings. The upstream
// publisher is loose about which one it sends for year and month.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = flexInt(n)
	return nil
}

// jobPayload accepts both the flat shape this service publishes and the
// legacy shape with a nested period object.
type jobPayload struct {
	EmployeeID string  `json:"employeeId"`
	CompanyID  string  `json:"companyId"`
	PeriodID   string  `json:"periodId"`
	Year       flexInt `json:"year"`
	Month      flexInt `json:"month"`
	RequestID  string  `json:"requestId"`
	Attempts   flexInt `json:"attempts"`
	Period     *struct {
		ID    string  `json:"id"`
		Year  flexInt `json:"year"`
		Month flexInt `json:"month"`
	} `json:"period"`
}

func parseJob(data []byte) (payroll.Job, error) {
	var p jobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return payroll.Job{}, fmt.Errorf("failed to decode job: %w", err)
	}
	if p.Period != nil {
		if p.PeriodID == "" {
			p.PeriodID = p.Period.ID
		}
		if p.Year == 0 {
			p.Year = p.Period.Year
		}
		if p.Month == 0 {
			p.Month = p.Period.Month
		}
	}
	job := payroll.Job{
		EmployeeID: p.EmployeeID,
		CompanyID:  p.CompanyID,
		PeriodID:   p.PeriodID,
		Year:       int(p.Year),
		Month:      int(p.Month),
		RequestID:  p.RequestID,
		Attempts:   int(p.Attempts),
	}
	if job.EmployeeID == "" || job.CompanyID == "" || job.PeriodID == "" {
		return payroll.Job{}, payroll.ErrInvalidJob
	}
	return job, nil
}
