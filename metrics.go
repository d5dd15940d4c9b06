package mirror

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var (
	batchOps      = metrics.NewHistogram("mirror_batch_ops")
	batchDuration = metrics.NewHistogram("mirror_batch_duration_seconds")
	batchErrors   = metrics.NewCounter("mirror_batch_errors_total")
	evictions     = metrics.NewCounter("mirror_evictions_total")
	reconcileAdds = metrics.NewCounter("mirror_reconcile_additions_total")
	reconcileDels = metrics.NewCounter("mirror_reconcile_removals_total")
)

func observeBatch(ops int, atomic bool, start time.Time, err error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`mirror_batches_total{atomic="%t"}`, atomic)).Inc()
	batchOps.Update(float64(ops))
	batchDuration.Update(time.Since(start).Seconds())
	if err != nil {
		batchErrors.Inc()
	}
}

func observeUpdate(event string, err error) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`mirror_updates_total{event=%q}`, event)).Inc()
	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`mirror_update_errors_total{event=%q}`, event)).Inc()
	}
}
