package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/chancelab/predictor/internal/predictor/stats"
	"github.com/chancelab/predictor/internal/predictor/store"
	"github.com/chancelab/predictor/internal/predictor/types"
)

var (
	// ErrNotAuthorized: the acting principal is not an administrator.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotEntitled: the principal has no active entitlement.
	ErrNotEntitled = errors.New("no active subscription")
	// ErrThrottled: the random-card cooldown has not elapsed yet.
	ErrThrottled = errors.New("cooldown not elapsed")
)

// DrawSource supplies the historical draws the analyzer consumes.
// Reads reflect current file state; results are never cached here.
type DrawSource interface {
	Load(maxRecords int) ([]types.Draw, error)
}

// PredictorService composes the ledger, cooldown guard and analyzer into
// the operations the transport layer calls.  Every operation checks
// entitlement through the ledger before touching paid features and
// terminates in exactly one response.
type PredictorService struct {
	deps   Dependencies
	admins map[int64]struct{}
}

type Dependencies struct {
	Ledger      *Ledger
	Cooldown    *CooldownGuard
	Draws       DrawSource
	Predictions store.PredictionStore
	Notifier    Notifier
	Logger      *log.Logger

	// AdminIDs are the principals allowed to grant/revoke/broadcast.
	AdminIDs []int64

	// HistoryLimit caps how many draws feed one analysis.  Defaults to 200.
	HistoryLimit int

	// CooldownInterval is the minimum gap between random-card requests
	// per principal.  Defaults to 5 seconds.
	CooldownInterval time.Duration

	// Now overrides the clock.  Defaults to time.Now.
	Now func() time.Time
}

func NewPredictorService(deps Dependencies) *PredictorService {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 200
	}
	if deps.CooldownInterval <= 0 {
		deps.CooldownInterval = 5 * time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	admins := make(map[int64]struct{}, len(deps.AdminIDs))
	for _, id := range deps.AdminIDs {
		admins[id] = struct{}{}
	}
	return &PredictorService{deps: deps, admins: admins}
}

func (s *PredictorService) isAdmin(principalID int64) bool {
	_, ok := s.admins[principalID]
	return ok
}

// CheckStatus reports entitlement state without mutating the ledger —
// a status query must never evict, even a logically expired record.
func (s *PredictorService) CheckStatus(principalID int64) (entitled bool, expiry time.Time) {
	expiry, entitled = s.deps.Ledger.Expiry(principalID)
	return entitled, expiry
}

// Grant activates a fresh 24-hour window for the target.  Only
// administrators may call it.  The target is notified on a best-effort
// basis; a failed notification never rolls back the grant.
func (s *PredictorService) Grant(ctx context.Context, actingID, targetID int64) (time.Time, error) {
	if !s.isAdmin(actingID) {
		return time.Time{}, ErrNotAuthorized
	}

	expiry := s.deps.Ledger.Grant(ctx, targetID, actingID, s.deps.Now())

	s.notify(ctx, targetID,
		"Your daily subscription is active. You have full access for the next 24 hours.")

	return expiry, nil
}

// Revoke removes the target's entitlement immediately, regardless of
// remaining time.  Returns whether a record existed.
func (s *PredictorService) Revoke(ctx context.Context, actingID, targetID int64) (bool, error) {
	if !s.isAdmin(actingID) {
		return false, ErrNotAuthorized
	}

	existed := s.deps.Ledger.Revoke(ctx, targetID, actingID)
	if existed {
		s.notify(ctx, targetID,
			"Your subscription has been cancelled. Contact the operator if this is a mistake.")
	}
	return existed, nil
}

// GetRecentDraws is free-tier: no entitlement check.
func (s *PredictorService) GetRecentDraws(limit int) ([]types.Draw, error) {
	return s.deps.Draws.Load(limit)
}

// GetHotCards returns the topN most frequent cards over the analysis
// window, strongest first.
func (s *PredictorService) GetHotCards(ctx context.Context, principalID int64, topN int) ([]string, error) {
	if !s.deps.Ledger.IsEntitled(ctx, principalID) {
		return nil, ErrNotEntitled
	}

	draws, err := s.deps.Draws.Load(s.deps.HistoryLimit)
	if err != nil {
		return nil, err
	}
	return stats.TopN(stats.Aggregate(draws), topN), nil
}

// GetSuggestionSets returns numSets near-duplicate 4-card combinations
// and records them in the principal's prediction history.
func (s *PredictorService) GetSuggestionSets(ctx context.Context, principalID int64, numSets int) ([][]string, error) {
	if !s.deps.Ledger.IsEntitled(ctx, principalID) {
		return nil, ErrNotEntitled
	}

	draws, err := s.deps.Draws.Load(s.deps.HistoryLimit)
	if err != nil {
		return nil, err
	}
	sets := stats.SuggestSets(stats.Aggregate(draws), numSets)

	if s.deps.Predictions != nil {
		rec := store.PredictionRecord{
			PrincipalID: principalID,
			Sets:        sets,
			ServedAt:    s.deps.Now().UTC(),
		}
		if err := s.deps.Predictions.RecordPrediction(ctx, rec); err != nil && s.deps.Logger != nil {
			s.deps.Logger.Printf("prediction history write error: %v", err)
		}
	}

	return sets, nil
}

// GetRandomCard draws one uniform random card.  The principal must pass
// both the entitlement check and the cooldown check; a throttled request
// does not consume the cooldown.
func (s *PredictorService) GetRandomCard(ctx context.Context, principalID int64) (string, error) {
	if !s.deps.Ledger.IsEntitled(ctx, principalID) {
		return "", ErrNotEntitled
	}
	if !s.deps.Cooldown.Allow(principalID, s.deps.Now(), s.deps.CooldownInterval) {
		return "", ErrThrottled
	}
	return stats.RandomCard(), nil
}

// GetPredictionHistory returns the principal's most recent suggestion
// sets, newest first.
func (s *PredictorService) GetPredictionHistory(ctx context.Context, principalID int64, limit int) ([]store.PredictionRecord, error) {
	if !s.deps.Ledger.IsEntitled(ctx, principalID) {
		return nil, ErrNotEntitled
	}
	if s.deps.Predictions == nil {
		return nil, nil
	}
	return s.deps.Predictions.ListRecent(ctx, principalID, limit)
}

// Broadcast sends a message to every active subscriber.  Per-target
// failures are counted, never propagated.
func (s *PredictorService) Broadcast(ctx context.Context, actingID int64, message string) (sent, failed int, err error) {
	if !s.isAdmin(actingID) {
		return 0, 0, ErrNotAuthorized
	}

	for _, id := range s.deps.Ledger.Subscribers() {
		if nerr := s.deps.Notifier.Notify(ctx, id, message); nerr != nil {
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}

// notify delivers on a best-effort basis; failures are logged only.
func (s *PredictorService) notify(ctx context.Context, principalID int64, message string) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.Notify(ctx, principalID, message); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Printf("notify principal=%d error: %v", principalID, err)
	}
}
