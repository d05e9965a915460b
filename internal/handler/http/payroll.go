package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
	"github.com/nominaplus/payroll-engine/internal/handler/http/response"
	"github.com/nominaplus/payroll-engine/internal/pkg/queue"
	"github.com/nominaplus/payroll-engine/internal/pkg/validator"
	"github.com/nominaplus/payroll-engine/internal/service/refdata"
)

type PayrollHandler interface {
	EnqueueCalculations(w http.ResponseWriter, r *http.Request)
	QueueStatus(w http.ResponseWriter, r *http.Request)
	InvalidateCodes(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	jobs     *queue.Queue
	status   *queue.Queue
	resolver *refdata.Resolver
}

func NewPayrollHandler(jobs, status *queue.Queue, resolver *refdata.Resolver) PayrollHandler {
	return &PayrollHandlerImpl{jobs: jobs, status: status, resolver: resolver}
}

// CalculationRequest asks for a liquidation of one period for a set of
// employees. One queue job is published per employee.
type CalculationRequest struct {
	CompanyID   string   `json:"companyId"`
	PeriodID    string   `json:"periodId"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	EmployeeIDs []string `json:"employeeIds"`
	RequestID   string   `json:"requestId"`
}

func (r CalculationRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "companyId", Message: "is required"})
	}
	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "periodId", Message: "is required"})
	}
	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employeeIds", Message: "at least one employee is required"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "out of range"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EnqueueCalculations implements PayrollHandler.
func (h *PayrollHandlerImpl) EnqueueCalculations(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	for _, employeeID := range req.EmployeeIDs {
		job := payroll.Job{
			EmployeeID: employeeID,
			CompanyID:  req.CompanyID,
			PeriodID:   req.PeriodID,
			Year:       req.Year,
			Month:      req.Month,
			RequestID:  req.RequestID,
		}
		if err := h.jobs.Publish(r.Context(), job); err != nil {
			slog.Error("Failed to publish calculation job", "employee_id", employeeID, "error", err)
			response.InternalServerError(w, "Failed to enqueue calculations")
			return
		}
	}

	response.Accepted(w, "Calculations enqueued", map[string]interface{}{
		"requestId": req.RequestID,
		"enqueued":  len(req.EmployeeIDs),
	})
}

// QueueStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) QueueStatus(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.Len(r.Context())
	if err != nil {
		slog.Error("Failed to measure job queue", "error", err)
		response.InternalServerError(w, "Failed to read queue status")
		return
	}
	status, err := h.status.Len(r.Context())
	if err != nil {
		slog.Error("Failed to measure status queue", "error", err)
		response.InternalServerError(w, "Failed to read queue status")
		return
	}
	response.Success(w, map[string]int64{
		"pendingJobs":   jobs,
		"pendingStatus": status,
	})
}

// InvalidateCodes implements PayrollHandler. It drops the cached code
// configuration of a company so the next calculation reloads it.
func (h *PayrollHandlerImpl) InvalidateCodes(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	if validator.IsEmpty(companyID) {
		response.BadRequest(w, "companyID is required", nil)
		return
	}
	h.resolver.Invalidate(r.Context(), companyID)
	response.Success(w, map[string]string{"companyId": companyID})
}
