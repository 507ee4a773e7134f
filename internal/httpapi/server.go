package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/chancelab/predictor/internal/predictor/service"
	"github.com/chancelab/predictor/internal/predictor/stats"
	"github.com/chancelab/predictor/internal/predictor/types"
)

type Dependencies struct {
	Logger    *log.Logger
	Addr      string
	Predictor *service.PredictorService
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	predictor  *service.PredictorService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    d.Logger,
		mux:       mux,
		predictor: d.Predictor,
	}

	mux.HandleFunc("POST /v1/status", s.handleStatus)
	mux.HandleFunc("POST /v1/grant", s.handleGrant)
	mux.HandleFunc("POST /v1/revoke", s.handleRevoke)
	mux.HandleFunc("POST /v1/broadcast", s.handleBroadcast)
	mux.HandleFunc("POST /v1/random_card", s.handleRandomCard)
	mux.HandleFunc("GET /v1/draws", s.handleDraws)
	mux.HandleFunc("GET /v1/hot", s.handleHotCards)
	mux.HandleFunc("GET /v1/suggestions", s.handleSuggestions)
	mux.HandleFunc("GET /v1/predictions", s.handlePredictions)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req types.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PrincipalID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "principal_id is required")
		return
	}

	entitled, expiry := s.predictor.CheckStatus(req.PrincipalID)
	resp := types.StatusResponse{
		OK:          true,
		PrincipalID: req.PrincipalID,
		Entitled:    entitled,
		ServerTime:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if entitled {
		resp.ExpiresAt = expiry.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	var req types.GrantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ActingID <= 0 || req.TargetID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "acting_id and target_id are required")
		return
	}

	expiry, err := s.predictor.Grant(r.Context(), req.ActingID, req.TargetID)
	if err != nil {
		s.writeServiceError(w, "grant", err)
		return
	}

	writeJSON(w, http.StatusOK, types.GrantResponse{
		OK:        true,
		TargetID:  req.TargetID,
		ExpiresAt: expiry.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var req types.RevokeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ActingID <= 0 || req.TargetID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "acting_id and target_id are required")
		return
	}

	existed, err := s.predictor.Revoke(r.Context(), req.ActingID, req.TargetID)
	if err != nil {
		s.writeServiceError(w, "revoke", err)
		return
	}

	writeJSON(w, http.StatusOK, types.RevokeResponse{
		OK:       true,
		TargetID: req.TargetID,
		Existed:  existed,
	})
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req types.BroadcastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ActingID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "acting_id is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "empty_message", "message is required")
		return
	}

	sent, failed, err := s.predictor.Broadcast(r.Context(), req.ActingID, req.Message)
	if err != nil {
		s.writeServiceError(w, "broadcast", err)
		return
	}

	writeJSON(w, http.StatusOK, types.BroadcastResponse{OK: true, Sent: sent, Failed: failed})
}

func (s *Server) handleRandomCard(w http.ResponseWriter, r *http.Request) {
	var req types.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PrincipalID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "principal_id is required")
		return
	}

	card, err := s.predictor.GetRandomCard(r.Context(), req.PrincipalID)
	if err != nil {
		s.writeServiceError(w, "random_card", err)
		return
	}

	writeJSON(w, http.StatusOK, types.RandomCardResponse{OK: true, Card: card})
}

func (s *Server) handleDraws(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	draws, err := s.predictor.GetRecentDraws(limit)
	if err != nil {
		s.logger.Printf("draws error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}
	if draws == nil {
		draws = []types.Draw{}
	}

	writeJSON(w, http.StatusOK, types.DrawsResponse{OK: true, Draws: draws})
}

func (s *Server) handleHotCards(w http.ResponseWriter, r *http.Request) {
	principalID, ok := queryPrincipal(w, r)
	if !ok {
		return
	}
	topN := queryInt(r, "n", 3)

	cards, err := s.predictor.GetHotCards(r.Context(), principalID, topN)
	if err != nil {
		s.writeServiceError(w, "hot", err)
		return
	}

	writeJSON(w, http.StatusOK, types.HotCardsResponse{OK: true, Cards: stats.WithSuits(cards)})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	principalID, ok := queryPrincipal(w, r)
	if !ok {
		return
	}
	numSets := queryInt(r, "sets", 3)

	sets, err := s.predictor.GetSuggestionSets(r.Context(), principalID, numSets)
	if err != nil {
		s.writeServiceError(w, "suggestions", err)
		return
	}

	writeJSON(w, http.StatusOK, types.SuggestionsResponse{OK: true, Sets: sets})
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	principalID, ok := queryPrincipal(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 10)

	recs, err := s.predictor.GetPredictionHistory(r.Context(), principalID, limit)
	if err != nil {
		s.writeServiceError(w, "predictions", err)
		return
	}

	entries := make([]types.PredictionEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, types.PredictionEntry{
			Sets:     rec.Sets,
			ServedAt: rec.ServedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, types.PredictionsResponse{OK: true, Entries: entries})
}

// writeServiceError maps facade errors onto HTTP statuses.  Denials stay
// detail-free toward the caller; only genuinely unexpected errors log.
func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "not_authorized", "admin access required")
	case errors.Is(err, service.ErrNotEntitled):
		writeError(w, http.StatusForbidden, "not_entitled", "an active daily subscription is required")
	case errors.Is(err, service.ErrThrottled):
		writeError(w, http.StatusTooManyRequests, "throttled", "please wait a few seconds and try again")
	default:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	return true
}

// queryPrincipal parses the principal_id query parameter.  A missing or
// unparseable id is a usage error: reject, mutate nothing.
func queryPrincipal(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("principal_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_principal", "principal_id is required")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
