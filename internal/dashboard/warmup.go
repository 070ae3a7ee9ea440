package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

// TaskWarmup pre-populates the snapshot cache so the first admin paint after
// a deploy or expiry comes from Redis.
const TaskWarmup = "dashboard:warmup"

// WarmupScope identifies one vendor dashboard to warm. Tier-2 aggregation
// reads the caller's own order list, so each scope needs its own backend
// token; an unauthenticated warmup could never get past tier 1.
type WarmupScope struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type WarmupPayload struct {
	Scopes  []WarmupScope `json:"scopes"`
	Periods []string      `json:"periods"`
}

func NewWarmupTask(scopes []WarmupScope, periods []string) (*asynq.Task, error) {
	data, err := json.Marshal(WarmupPayload{Scopes: scopes, Periods: periods})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWarmup, data), nil
}

type WarmupHandler struct {
	Orch   *Orchestrator
	Logger *slog.Logger
}

// ProcessTask refreshes one snapshot per scope and period. Placeholder
// resolutions are not cached, so a fully-down backend leaves the cache
// untouched rather than poisoning it.
func (h *WarmupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(payload.Scopes) == 0 {
		logger.Info("dashboard warmup: no scopes configured")
		return nil
	}
	if len(payload.Periods) == 0 {
		payload.Periods = []string{"month"}
	}
	for _, scope := range payload.Scopes {
		scopeCtx := backend.WithToken(ctx, scope.Token)
		for _, period := range payload.Periods {
			snap := h.Orch.Load(scopeCtx, Options{Scope: scope.UserID, Period: period, Force: true})
			logger.Info("dashboard warmup",
				slog.String("scope", scope.UserID),
				slog.String("period", period),
				slog.String("source", string(snap.Metrics.Source)),
			)
		}
	}
	return nil
}
