package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"authgate/internal/enrollment/service"
	"authgate/internal/server/middleware"
	"authgate/internal/verify"
)

// Handler exposes phone enrollment endpoints over HTTP. All routes require a
// Bearer token; the auth middleware puts the user id in context.
type Handler struct {
	enrollment *service.Service
}

// NewHandler returns an enrollment HTTP handler backed by the enrollment service.
func NewHandler(enrollment *service.Service) *Handler {
	return &Handler{enrollment: enrollment}
}

// MountProtected registers the enrollment routes on a router that already
// enforces Bearer auth.
func (h *Handler) MountProtected(r chi.Router) {
	r.Post("/api/2fa/phone-verify", h.handlePhoneVerify)
	r.Post("/api/2fa/phone-register", h.handlePhoneRegister)
}

type phoneVerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type phoneRegisterRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handlePhoneVerify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid authorization"})
		return
	}
	var req phoneVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if err := h.enrollment.StartVerification(r.Context(), userID, req.PhoneNumber); err != nil {
		writeEnrollmentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePhoneRegister(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid authorization"})
		return
	}
	var req phoneRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if err := h.enrollment.RegisterPhone(r.Context(), userID, req.PhoneNumber, req.Code); err != nil {
		writeEnrollmentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeEnrollmentError maps enrollment service sentinel errors to HTTP status codes.
// Provider rejections surface as 400 with the provider-supplied reason.
func writeEnrollmentError(w http.ResponseWriter, err error) {
	var pe *verify.ProviderError
	switch {
	case errors.As(err, &pe):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: pe.Reason})
	case errors.Is(err, service.ErrInvalidPhoneNumber),
		errors.Is(err, service.ErrInvalidVerificationCode):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid authorization"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
