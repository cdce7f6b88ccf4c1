package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	"github.com/sheikh-saqib/point-ledger/internal/ledger"
	"github.com/sheikh-saqib/point-ledger/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeLockTimeout    = "LOCK_TIMEOUT"
	codeInternal       = "INTERNAL_SERVER_ERROR"
)

type Handler struct {
	svc interfaces.PointService
	log *logrus.Logger
}

func NewHandler(svc interfaces.PointService, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /point/{id}", h.GetPoint)
	mux.HandleFunc("GET /point/{id}/histories", h.GetHistories)
	mux.HandleFunc("PATCH /point/{id}/charge", h.Charge)
	mux.HandleFunc("PATCH /point/{id}/use", h.Use)
}

type pointResponse struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

type historyResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Amount       int64  `json:"amount"`
	Type         string `json:"type"`
	UpdateMillis int64  `json:"updateMillis"`
}

type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func toPointResponse(p models.UserPoint) pointResponse {
	return pointResponse{ID: p.ID, Point: p.Point, UpdateMillis: p.UpdatedAt.UnixMilli()}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) GetPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	point, err := h.svc.GetBalance(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toPointResponse(point))
}

func (h *Handler) GetHistories(w http.ResponseWriter, r *http.Request) {
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}
	histories, err := h.svc.GetHistory(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	res := make([]historyResponse, 0, len(histories))
	for _, e := range histories {
		res = append(res, historyResponse{
			ID:           e.ID,
			UserID:       e.UserID,
			Amount:       e.Amount,
			Type:         string(e.Type),
			UpdateMillis: e.UpdatedAt.UnixMilli(),
		})
	}
	h.respondJSON(w, http.StatusOK, res)
}

func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	id, amount, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}
	point, err := h.svc.Charge(r.Context(), id, amount)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toPointResponse(point))
}

func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	id, amount, ok := h.mutationRequest(w, r)
	if !ok {
		return
	}
	point, err := h.svc.Use(r.Context(), id, amount)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toPointResponse(point))
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, codeInvalidRequest, "account id must be an integer")
		return 0, false
	}
	return id, true
}

// mutationRequest reads the account id from the path and the amount from a
// body holding a single JSON number.
func (h *Handler) mutationRequest(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, ok := h.accountID(w, r)
	if !ok {
		return 0, 0, false
	}
	var amount int64
	if err := json.NewDecoder(r.Body).Decode(&amount); err != nil {
		h.respondError(w, http.StatusBadRequest, codeInvalidRequest, "body must be an integer amount")
		return 0, 0, false
	}
	return id, amount, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if code := ledger.ErrorCode(err); code != "" {
		h.respondError(w, http.StatusBadRequest, code, err.Error())
		return
	}
	if errors.Is(err, ledger.ErrLockTimeout) {
		h.respondError(w, http.StatusServiceUnavailable, codeLockTimeout, err.Error())
		return
	}

	h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err,
	}).Error("point request failed")
	h.respondError(w, http.StatusInternalServerError, codeInternal, "internal server error")
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, code, message string) {
	h.respondJSON(w, status, errorResponse{ErrorCode: code, Message: message})
}
