package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/payflow-hq/payroll-backend-go/internal/domain/period"
	"github.com/payflow-hq/payroll-backend-go/internal/handler/http/response"
)

type PeriodHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListEntries(w http.ResponseWriter, r *http.Request)

	Initiate(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
	HRSubmit(w http.ResponseWriter, r *http.Request)
	FinanceSubmit(w http.ResponseWriter, r *http.Request)
	RequestApproval(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Disburse(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Lock(w http.ResponseWriter, r *http.Request)

	Verify(w http.ResponseWriter, r *http.Request)
}

type periodHandlerImpl struct {
	workflowService period.WorkflowService
}

func NewPeriodHandler(workflowService period.WorkflowService) PeriodHandler {
	return &periodHandlerImpl{workflowService: workflowService}
}

func (h *periodHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req period.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.workflowService.CreatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period created", result)
}

func (h *periodHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.GetPeriod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *periodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := period.Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := period.Status(s)
		filter.Status = &status
	}
	if m := r.URL.Query().Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil {
			response.BadRequest(w, "Invalid month", nil)
			return
		}
		filter.Month = &month
	}
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		filter.Year = &year
	}

	result, err := h.workflowService.ListPeriods(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *periodHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.ListEntries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== WORKFLOW ==========

func (h *periodHandlerImpl) Initiate(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Initiate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Collection started", result)
}

func (h *periodHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Process(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll processed", result)
}

func (h *periodHandlerImpl) HRSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.HRSubmit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Submitted for HR review", result)
}

func (h *periodHandlerImpl) FinanceSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.FinanceSubmit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Submitted for finance review", result)
}

func (h *periodHandlerImpl) RequestApproval(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.RequestApproval(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Approval requested", result)
}

func (h *periodHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req period.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.workflowService.Approve(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period approved", result)
}

func (h *periodHandlerImpl) Disburse(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Disburse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Disbursement started", result)
}

func (h *periodHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period completed", result)
}

func (h *periodHandlerImpl) Lock(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Lock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period locked", result)
}

func (h *periodHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflowService.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
