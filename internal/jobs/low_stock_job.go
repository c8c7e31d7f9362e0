package jobs

import (
	"context"
	"time"

	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// LowStockJobName nombre del barrido de stock bajo.
const LowStockJobName = "low_stock_sweep"

// LowStockSweeper recorre el inventario y avisa los productos con stock bajo.
type LowStockSweeper interface {
	SweepLowStock(ctx context.Context) (int, error)
}

// LowStockJob barrido periódico de stock bajo. Los avisos son idempotentes, así que
// cada producto genera una sola alerta aunque el barrido se repita.
type LowStockJob struct {
	sweeper LowStockSweeper
	log     *logger.Logger
	timeout time.Duration
}

// NewLowStockJob construye la tarea; timeout limita cada ejecución.
func NewLowStockJob(sweeper LowStockSweeper, log *logger.Logger, timeout time.Duration) *LowStockJob {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &LowStockJob{sweeper: sweeper, log: log.Named("jobs"), timeout: timeout}
}

// Run ejecuta un barrido. Lo invoca el Scheduler.
func (j *LowStockJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	low, err := j.sweeper.SweepLowStock(ctx)
	if err != nil {
		j.log.Error().Err(err).Dur("duration", time.Since(start)).Msg("barrido de stock bajo falló")
		return
	}
	j.log.Info().Int("low_stock", low).Dur("duration", time.Since(start)).Msg("barrido de stock bajo completado")
}
