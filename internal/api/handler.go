package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xrpstat/gwstat/internal/archive"
	"github.com/xrpstat/gwstat/internal/ledger"
	"github.com/xrpstat/gwstat/internal/report"
	"github.com/xrpstat/gwstat/internal/rpcfield"
)

// Handler provides the HTTP endpoints of the reporting API.
type Handler struct {
	reports       *report.Service
	reportArchive *archive.Service // optional
}

// NewHandler creates a new API handler. reportArchive may be nil when no
// database is configured.
func NewHandler(reports *report.Service, reportArchive *archive.Service) *Handler {
	return &Handler{reports: reports, reportArchive: reportArchive}
}

// GatewayBalances handles POST /api/v1/gateway_balances. The request body is
// the raw params object.
func (h *Handler) GatewayBalances(w http.ResponseWriter, r *http.Request) {
	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalidParams", "request body must be a JSON object")
		return
	}

	resp, err := h.reports.GatewayBalances(r.Context(), params)
	if err != nil {
		status, code := errorCode(err)
		if status == http.StatusInternalServerError {
			slog.Error("gateway_balances failed", "error", err)
			writeError(w, status, code, "internal error")
			return
		}
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetLatestReport handles GET /api/v1/reports/{account}/latest.
func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	if h.reportArchive == nil {
		writeError(w, http.StatusNotFound, "noArchive", "report archive not configured")
		return
	}

	rep, err := h.reportArchive.GetLatest(r.Context(), r.PathValue("account"))
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			writeError(w, http.StatusNotFound, "reportNotFound", "no stored report for account")
			return
		}
		slog.Error("failed to load latest report", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// ListReports handles GET /api/v1/reports/{account}.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.reportArchive == nil {
		writeError(w, http.StatusNotFound, "noArchive", "report archive not configured")
		return
	}

	const maxLimit = 100
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	reports, err := h.reportArchive.List(r.Context(), r.PathValue("account"), limit)
	if err != nil {
		slog.Error("failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorCode maps query errors onto HTTP status and response error codes.
func errorCode(err error) (int, string) {
	var missing *rpcfield.MissingFieldError
	var mismatch *rpcfield.TypeMismatchError
	var malformed *rpcfield.MalformedAccountError

	switch {
	case errors.Is(err, report.ErrInvalidHotWallet):
		return http.StatusBadRequest, "invalidHotWallet"
	case errors.As(err, &missing):
		return http.StatusBadRequest, "missingField"
	case errors.As(err, &mismatch):
		return http.StatusBadRequest, "invalidParams"
	case errors.As(err, &malformed):
		return http.StatusBadRequest, "actMalformed"
	case errors.Is(err, ledger.ErrAccountMalformed):
		return http.StatusBadRequest, "actMalformed"
	case errors.Is(err, ledger.ErrLedgerNotFound):
		return http.StatusNotFound, "lgrNotFound"
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound, "actNotFound"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

type errorBody struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, ErrorMessage: msg})
}
