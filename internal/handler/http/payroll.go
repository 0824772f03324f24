package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/domain/payroll"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/handler/http/response"
	"github.com/pharmtrack/pharmtrack-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	GetDailyAggregate(w http.ResponseWriter, r *http.Request)
	GetPayableDay(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetBranchSummaries(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// GetDailyAggregate implements PayrollHandler.
func (h *payrollHandlerImpl) GetDailyAggregate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireQuery(w, r, "employee_id")
	if !ok {
		return
	}
	date, ok := requireDateQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.payrollService.GetDailyAggregate(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result == nil {
		response.NotFound(w, "No clock sessions for this date")
		return
	}

	response.Success(w, result)
}

// GetPayableDay implements PayrollHandler.
func (h *payrollHandlerImpl) GetPayableDay(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireQuery(w, r, "employee_id")
	if !ok {
		return
	}
	date, ok := requireDateQuery(w, r, "date")
	if !ok {
		return
	}

	result, err := h.payrollService.GetPayableDay(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements PayrollHandler.
func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireQuery(w, r, "employee_id")
	if !ok {
		return
	}
	startDate, ok := requireDateQuery(w, r, "start_date")
	if !ok {
		return
	}
	endDate, ok := requireDateQuery(w, r, "end_date")
	if !ok {
		return
	}

	result, err := h.payrollService.GetPayrollSummary(r.Context(), employeeID, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetBranchSummaries implements PayrollHandler.
func (h *payrollHandlerImpl) GetBranchSummaries(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "id")
	startDate, ok := requireDateQuery(w, r, "start_date")
	if !ok {
		return
	}
	endDate, ok := requireDateQuery(w, r, "end_date")
	if !ok {
		return
	}

	result, err := h.payrollService.GetBranchSummaries(r.Context(), branchID, startDate, endDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if validator.IsEmpty(value) {
		response.BadRequest(w, "Query parameter '"+name+"' is required", nil)
		return "", false
	}
	return value, true
}

func requireDateQuery(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	value, ok := requireQuery(w, r, name)
	if !ok {
		return time.Time{}, false
	}

	date, valid := validator.IsValidDate(value)
	if !valid {
		response.BadRequest(w, "Query parameter '"+name+"' must be a YYYY-MM-DD date", nil)
		return time.Time{}, false
	}
	return date, true
}
