// Package jobs tareas asynq del servicio: conciliación del ledger programada y a demanda.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola por defecto de las tareas.
	QueueDefault = "default"
	// TaskReconcileStock compara la caché de stock contra el ledger.
	TaskReconcileStock = "inventory:reconcile"
)

// ReconcilePayload storeID vacío revisa todas las tiendas.
type ReconcilePayload struct {
	StoreID string `json:"store_id,omitempty"`
}

// NewReconcileTask construye la tarea de conciliación.
func NewReconcileTask(storeID string) (*asynq.Task, error) {
	body, err := json.Marshal(ReconcilePayload{StoreID: storeID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReconcileStock, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
