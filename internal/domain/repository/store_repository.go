package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// StoreRepository puerto de lectura de tiendas. GetByID devuelve (nil, nil) si no existe.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetCentral(ctx context.Context) (*entity.Store, error)
}

// VariationRepository puerto de lectura de variaciones (SKU).
type VariationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Variation, error)
}
