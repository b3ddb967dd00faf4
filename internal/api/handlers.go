// Package api exposes HTTP handlers for the rewards engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/rewards/internal/auth"
	"example.com/rewards/internal/badges"
	"example.com/rewards/internal/domain"
	"example.com/rewards/internal/leaderboard"
)

// Handler coordinates HTTP requests with the rewards engine.
type Handler struct {
	engine *domain.Engine
	board  *leaderboard.Board
	badges *badges.Checker
}

// NewHandler builds a Handler. Board and badge checker may be nil when those
// read endpoints are not served by this process.
func NewHandler(engine *domain.Engine, board *leaderboard.Board, checker *badges.Checker) *Handler {
	return &Handler{engine: engine, board: board, badges: checker}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/accounts/", h.accountByID)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	h.submitActivity(w, r)
}

func (h *Handler) submitActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeRewardsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope rewards:write required")
		return
	}

	var req SubmitActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	payload, err := decodePayload(domain.ActivityType(req.ActivityType), req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	entry, err := h.engine.Record(r.Context(), domain.ActivitySubmission{
		UserID:   req.UserID,
		Type:     domain.ActivityType(req.ActivityType),
		Verified: req.Verified,
		Location: req.Location,
		Payload:  payload,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidActivityPayload):
			writeError(w, http.StatusBadRequest, "invalid_payload", err.Error())
		case errors.Is(err, domain.ErrLedgerApplyFailed):
			writeError(w, http.StatusInternalServerError, "ledger_apply_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toLedgerEntryView(*entry))
}

func (h *Handler) accountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeRewardsRead) && !claims.HasScope(auth.ScopeRewardsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope rewards:read required")
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/v1/accounts/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	projection, err := h.engine.GetAccountProjection(userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	view := toAccountView(projection)
	if h.badges != nil {
		view.Badges = h.badges.Badges(userID)
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeRewardsRead) && !claims.HasScope(auth.ScopeRewardsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope rewards:read required")
		return
	}

	if h.board == nil {
		writeError(w, http.StatusNotFound, "not_found", "leaderboard not served here")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	standings := h.board.Top(limit)
	items := make([]StandingView, 0, len(standings))
	for _, s := range standings {
		items = append(items, StandingView{Rank: s.Rank, UserID: s.UserID, Points: s.Points})
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Standings: items})
}

// SubmitActivityRequest is the payload for POST /v1/activities. The payload
// object is type-specific and decoded against the declared activity_type.
type SubmitActivityRequest struct {
	UserID       string          `json:"user_id"`
	ActivityType string          `json:"activity_type"`
	Verified     bool            `json:"verified"`
	Location     string          `json:"location,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// LedgerEntryView exposes one committed ledger entry. Tokens serialize as a
// decimal string so precision survives transit.
type LedgerEntryView struct {
	EntryID      string    `json:"entry_id"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	PointsEarned int64     `json:"points_earned"`
	TokensEarned string    `json:"tokens_earned"`
	Verified     bool      `json:"verified"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// AccountView exposes a projection snapshot.
type AccountView struct {
	UserID         string           `json:"user_id"`
	TotalPoints    int64            `json:"total_points"`
	TotalTokens    string           `json:"total_tokens"`
	ActivityCounts map[string]int64 `json:"activity_counts"`
	Badges         []string         `json:"badges,omitempty"`
}

// StandingView is one leaderboard row.
type StandingView struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

// LeaderboardResponse packages standings.
type LeaderboardResponse struct {
	Standings []StandingView `json:"standings"`
}

func toLedgerEntryView(entry domain.LedgerEntry) LedgerEntryView {
	return LedgerEntryView{
		EntryID:      entry.ID,
		UserID:       entry.UserID,
		ActivityType: string(entry.ActivityType),
		PointsEarned: entry.PointsEarned,
		TokensEarned: entry.TokensEarned.StringFixed(3),
		Verified:     entry.Verified,
		RecordedAt:   entry.RecordedAt,
	}
}

func toAccountView(projection domain.AccountProjection) AccountView {
	counts := make(map[string]int64, len(projection.ActivityCounts))
	for activityType, count := range projection.ActivityCounts {
		counts[string(activityType)] = count
	}
	return AccountView{
		UserID:         projection.UserID,
		TotalPoints:    projection.TotalPoints,
		TotalTokens:    projection.TotalTokens.StringFixed(3),
		ActivityCounts: counts,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
