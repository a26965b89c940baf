package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"healthsync/internal/domain"
)

// DefaultVitalsInterval is the refresh period of the mock generator
const DefaultVitalsInterval = 5 * time.Second

// VitalsGenerator fabricates heart-rate and SpO2 readings on a fixed interval.
// There is no sensor behind it.
type VitalsGenerator struct {
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	rnd    *rand.Rand
	latest *domain.VitalSigns
	now    func() time.Time
}

func NewVitalsGenerator(interval time.Duration, logger *zap.Logger) *VitalsGenerator {
	if interval <= 0 {
		interval = DefaultVitalsInterval
	}
	return &VitalsGenerator{
		interval: interval,
		logger:   logger,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// Generate returns heart rate in [60,100) and SpO2 in [95,100)
func (g *VitalsGenerator) Generate() domain.VitalSigns {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateLocked()
}

func (g *VitalsGenerator) generateLocked() domain.VitalSigns {
	return domain.VitalSigns{
		HeartRate: domain.HeartRateMin + g.rnd.Intn(domain.HeartRateMax-domain.HeartRateMin),
		SpO2:      domain.SpO2Min + g.rnd.Intn(domain.SpO2Max-domain.SpO2Min),
		Timestamp: g.now().UTC(),
	}
}

func (g *VitalsGenerator) refresh() {
	g.mu.Lock()
	v := g.generateLocked()
	g.latest = &v
	g.mu.Unlock()
}

// Latest returns the most recent sample; ok is false before the first one
func (g *VitalsGenerator) Latest() (domain.VitalSigns, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.latest == nil {
		return domain.VitalSigns{}, false
	}
	return *g.latest, true
}

// Run refreshes the sample now and then every interval until ctx is done
func (g *VitalsGenerator) Run(ctx context.Context) error {
	g.logger.Info("Vitals generator started", zap.Duration("interval", g.interval))
	g.refresh()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Vitals generator stopped")
			return nil
		case <-ticker.C:
			g.refresh()
		}
	}
}
