// Package reconcile audita la caché de stock contra el ledger de movimientos.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/pkg/logger"
)

// Service compara StoreProduct.stock con la suma de deltas. Solo reporta, nunca corrige.
type Service struct {
	repos repository.Repos
	log   *logger.Logger
	now   func() time.Time
}

// NewService construye el servicio.
func NewService(repos repository.Repos, log *logger.Logger) *Service {
	return &Service{repos: repos, log: log.Component("reconcile"), now: func() time.Time { return time.Now().UTC() }}
}

// Run revisa una tienda o todas si storeID está vacío.
func (s *Service) Run(ctx context.Context, storeID string) (*dto.ReconcileReport, error) {
	if storeID != "" {
		store, err := s.repos.Stores.GetByID(ctx, storeID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, storeID)
		}
	}
	balances, err := s.repos.Movements.Balances(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("balances: %w", err)
	}
	report := &dto.ReconcileReport{
		StoreID:   storeID,
		Checked:   len(balances),
		Drifted:   []dto.StockDriftItem{},
		CheckedAt: s.now(),
	}
	for _, b := range balances {
		if b.Drift() == 0 {
			continue
		}
		report.Drifted = append(report.Drifted, dto.StockDriftItem{
			StoreID:     b.StoreID,
			VariationID: b.VariationID,
			CachedStock: b.CachedStock,
			LedgerStock: b.LedgerStock,
			Drift:       b.Drift(),
		})
		s.log.Warn().
			Str("store_id", b.StoreID).
			Str("variation_id", b.VariationID).
			Int("cached", b.CachedStock).
			Int("ledger", b.LedgerStock).
			Msg("stock en caché no coincide con el ledger")
	}
	s.log.Info().Str("store_id", storeID).Int("checked", report.Checked).Int("drifted", len(report.Drifted)).Msg("conciliación terminada")
	return report, nil
}
