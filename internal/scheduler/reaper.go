package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper é a tarefa executada a cada tick.
type Sweeper interface {
	Execute(ctx context.Context) (int, error)
}

// Reaper cancela periodicamente reservas pendentes vencidas.
type Reaper struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger

	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewReaper(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Reaper {
	return &Reaper{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Reaper) Start(ctx context.Context) {
	r.logger.Info("starting pending booking reaper", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

// Stop encerra o loop e espera a varredura em andamento terminar.
func (r *Reaper) Stop() {
	r.once.Do(func() {
		close(r.stopChan)
	})
	<-r.done
}

func (r *Reaper) run(ctx context.Context) {
	defer close(r.done)

	// primeira varredura logo no start
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(ctx)
		case <-r.stopChan:
			r.logger.Info("pending booking reaper stopped")
			return
		case <-ctx.Done():
			r.logger.Info("pending booking reaper cancelled")
			return
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	n, err := r.sweeper.Execute(ctx)
	if err != nil {
		r.logger.Error("pending booking sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		r.logger.Debug("pending booking sweep", zap.Int("expired", n))
	}
}
