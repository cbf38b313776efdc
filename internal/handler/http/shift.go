package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-shift-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	// Engine
	ClassifyPunch(w http.ResponseWriter, r *http.Request)
	ComputeWorkingHours(w http.ResponseWriter, r *http.Request)

	// Punches
	RecordPunch(w http.ResponseWriter, r *http.Request)
	EnqueuePunches(w http.ResponseWriter, r *http.Request)

	// Roster
	GetEmployeeWorkingHours(w http.ResponseWriter, r *http.Request)
	ListEmployeeOvertime(w http.ResponseWriter, r *http.Request)
	GetShiftPattern(w http.ResponseWriter, r *http.Request)
	AssignShiftPattern(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// ClassifyPunch implements ShiftHandler.
func (h *shiftHandlerImpl) ClassifyPunch(w http.ResponseWriter, r *http.Request) {
	var req shift.ClassifyPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClassifyPunch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.ClassifyPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ComputeWorkingHours implements ShiftHandler.
func (h *shiftHandlerImpl) ComputeWorkingHours(w http.ResponseWriter, r *http.Request) {
	var req shift.ComputeWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ComputeWorkingHours decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.ComputeWorkingHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordPunch implements ShiftHandler.
func (h *shiftHandlerImpl) RecordPunch(w http.ResponseWriter, r *http.Request) {
	var req shift.RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RecordPunch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.RecordPunch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch recorded successfully", result)
}

// EnqueuePunches implements ShiftHandler.
func (h *shiftHandlerImpl) EnqueuePunches(w http.ResponseWriter, r *http.Request) {
	var req shift.BulkPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EnqueuePunches decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.EnqueuePunches(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Punches queued for processing", result)
}

// GetEmployeeWorkingHours implements ShiftHandler.
func (h *shiftHandlerImpl) GetEmployeeWorkingHours(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	filter := shift.DateRangeFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.shiftService.GetEmployeeWorkingHours(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEmployeeOvertime implements ShiftHandler.
func (h *shiftHandlerImpl) ListEmployeeOvertime(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	filter := shift.DateRangeFilter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.shiftService.ListEmployeeOvertime(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetShiftPattern implements ShiftHandler.
func (h *shiftHandlerImpl) GetShiftPattern(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Shift pattern ID is required", nil)
		return
	}

	result, err := h.shiftService.GetShiftPattern(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignShiftPattern implements ShiftHandler.
func (h *shiftHandlerImpl) AssignShiftPattern(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignShiftPattern decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.shiftService.AssignShiftPattern(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift pattern assigned successfully", result)
}
