package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// Reconciler ejecuta la conciliación (reconcile.Service).
type Reconciler interface {
	Run(ctx context.Context, storeID string) (*dto.ReconcileReport, error)
}

// ReconcileJob procesa TaskReconcileStock.
type ReconcileJob struct {
	svc Reconciler
	log *logger.Logger
}

// NewReconcileJob construye el handler.
func NewReconcileJob(svc Reconciler, log *logger.Logger) *ReconcileJob {
	return &ReconcileJob{svc: svc, log: log.Component("jobs")}
}

// Handle decodifica el payload y corre la conciliación. Payload inválido o tienda
// inexistente no se reintentan.
func (j *ReconcileJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.log.Error().Err(err).Str("task", t.Type()).Msg("payload inválido")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	report, err := j.svc.Run(ctx, payload.StoreID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	if len(report.Drifted) > 0 {
		j.log.Warn().Str("store_id", payload.StoreID).Int("drifted", len(report.Drifted)).Msg("conciliación con diferencias")
	}
	return nil
}
