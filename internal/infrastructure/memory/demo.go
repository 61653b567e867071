package memory

import (
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// IDs fijos de los datos de demostración.
const (
	DemoCentralStoreID = "00000000-0000-0000-0000-0000000000c0"
	DemoStoreAID       = "00000000-0000-0000-0000-0000000000a1"
	DemoStoreBID       = "00000000-0000-0000-0000-0000000000a2"
	DemoVariation1ID   = "00000000-0000-0000-0000-0000000000b1"
	DemoVariation2ID   = "00000000-0000-0000-0000-0000000000b2"
	DemoVariation3ID   = "00000000-0000-0000-0000-0000000000b3"
)

// SeedDemo carga una tienda central, dos sucursales y un par de variaciones
// para levantar la API sin base de datos.
func SeedDemo(s *Store) {
	now := time.Now().UTC()
	s.AddStore(entity.Store{ID: DemoCentralStoreID, Name: "Central", Location: "Santiago", IsCentral: true, CreatedAt: now, UpdatedAt: now})
	s.AddStore(entity.Store{ID: DemoStoreAID, Name: "Providencia", Location: "Santiago", CreatedAt: now, UpdatedAt: now})
	s.AddStore(entity.Store{ID: DemoStoreBID, Name: "Viña", Location: "Viña del Mar", CreatedAt: now, UpdatedAt: now})
	s.AddVariation(entity.Variation{ID: DemoVariation1ID, ProductID: "00000000-0000-0000-0000-0000000000d1", ProductName: "Polera básica", SKU: "POL-BAS-M-NEG", Size: "M", Color: "Negro", CreatedAt: now})
	s.AddVariation(entity.Variation{ID: DemoVariation2ID, ProductID: "00000000-0000-0000-0000-0000000000d1", ProductName: "Polera básica", SKU: "POL-BAS-L-NEG", Size: "L", Color: "Negro", CreatedAt: now})
	s.AddVariation(entity.Variation{ID: DemoVariation3ID, ProductID: "00000000-0000-0000-0000-0000000000d2", ProductName: "Jeans slim", SKU: "JEA-SLI-42-AZU", Size: "42", Color: "Azul", CreatedAt: now})
}
