// Package status centraliza las máquinas de estado de órdenes y documentos:
// tablas de transición explícitas y las derivaciones a partir de los contadores de línea.
package status

import (
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

// Machine tabla de transiciones permitidas para un tipo de estado.
type Machine[S ~string] struct {
	name  string
	table map[S][]S
}

// NewMachine construye una máquina a partir de su tabla (origen -> destinos permitidos).
func NewMachine[S ~string](name string, table map[S][]S) *Machine[S] {
	return &Machine[S]{name: name, table: table}
}

// Can indica si from -> to está permitido. Permanecer en el mismo estado siempre lo está.
func (m *Machine[S]) Can(from, to S) bool {
	if from == to {
		return true
	}
	for _, s := range m.table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition valida el cambio y devuelve ErrInvalidTransition si no procede.
func (m *Machine[S]) Transition(from, to S) error {
	if !m.Can(from, to) {
		return fmt.Errorf("%s: %s -> %s: %w", m.name, from, to, domain.ErrInvalidTransition)
	}
	return nil
}

// Terminal true si el estado no tiene salidas.
func (m *Machine[S]) Terminal(s S) bool {
	return len(m.table[s]) == 0
}
