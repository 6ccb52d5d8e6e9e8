package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/loan"
	"github.com/payflow-hq/payroll-backend-go/internal/handler/http/response"
)

type LoanHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Schedule(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	DeclareDefault(w http.ResponseWriter, r *http.Request)
}

type loanHandlerImpl struct {
	loanService loan.LoanService
}

func NewLoanHandler(loanService loan.LoanService) LoanHandler {
	return &loanHandlerImpl{loanService: loanService}
}

func (h *loanHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req loan.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Loan requested", result)
}

func (h *loanHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := loan.Filter{}
	if e := r.URL.Query().Get("employee_id"); e != "" {
		filter.EmployeeID = &e
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := loan.Status(s)
		filter.Status = &status
	}

	result, err := h.loanService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanService.Schedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *loanHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req loan.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.Approve(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan approved", result)
}

func (h *loanHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req loan.RejectLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.loanService.Reject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan rejected", result)
}

func (h *loanHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanService.Disburse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan disbursed", result)
}

func (h *loanHandlerImpl) DeclareDefault(w http.ResponseWriter, r *http.Request) {
	result, err := h.loanService.DeclareDefault(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Loan declared defaulted", result)
}
