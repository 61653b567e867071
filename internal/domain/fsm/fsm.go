// Package fsm implementa una tabla de transiciones explícita: cada par
// (origen, destino) permitido se declara con su efecto. Los pares no
// declarados se rechazan con domain.ErrInvalidTransition.
package fsm

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
)

// Effect se ejecuta al aplicar la transición, dentro de la transacción del llamador.
type Effect[C any] func(ctx context.Context, c C) error

// Machine tabla de transiciones de estados S con contexto de efecto C.
type Machine[S comparable, C any] struct {
	name  string
	edges map[S]map[S]Effect[C]
}

// New construye una máquina vacía; name aparece en los errores.
func New[S comparable, C any](name string) *Machine[S, C] {
	return &Machine[S, C]{name: name, edges: make(map[S]map[S]Effect[C])}
}

// Allow declara la transición from → to. effect puede ser nil.
func (m *Machine[S, C]) Allow(from, to S, effect Effect[C]) *Machine[S, C] {
	if m.edges[from] == nil {
		m.edges[from] = make(map[S]Effect[C])
	}
	m.edges[from][to] = effect
	return m
}

// Can indica si la transición está declarada.
func (m *Machine[S, C]) Can(from, to S) bool {
	_, ok := m.edges[from][to]
	return ok
}

// Fire aplica la transición. Si from == to no hace nada y devuelve false.
func (m *Machine[S, C]) Fire(ctx context.Context, from, to S, c C) (bool, error) {
	if from == to {
		return false, nil
	}
	effect, ok := m.edges[from][to]
	if !ok {
		return false, fmt.Errorf("%w: %s %v → %v", domain.ErrInvalidTransition, m.name, from, to)
	}
	if effect != nil {
		if err := effect(ctx, c); err != nil {
			return false, err
		}
	}
	return true, nil
}
