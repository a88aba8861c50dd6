// Package dayview hosts set logging engines for thin clients and exposes them over HTTP.
package dayview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/training/gesture"
	"github.com/2beens/fitcoach/internal/training/setlog"

	"github.com/hashicorp/golang-lru/v2/expirable"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRegistrySize = 256
	DefaultIdleTTL      = 2 * time.Hour
)

// EngineFactory creates an unloaded engine acting for authCtx.
type EngineFactory func(authCtx auth.Context, dayID int64) *setlog.Engine

type engineKey struct {
	clientID int64
	dayID    int64
}

// Hosted is a loaded engine together with the drag state of its slots.
type Hosted struct {
	Engine   *setlog.Engine
	Gestures *gesture.Controller
}

// Registry keeps one engine per client and workout day. Engines idle for
// longer than the ttl, pushed out by newer ones, or left over from a past
// local day are dropped along with their drafts.
type Registry struct {
	mu      sync.Mutex
	engines *expirable.LRU[engineKey, *Hosted]
	factory EngineFactory
	metrics *metrics.Manager
}

func NewRegistry(size int, idleTTL time.Duration, factory EngineFactory, metricsManager *metrics.Manager) *Registry {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	r := &Registry{
		factory: factory,
		metrics: metricsManager,
	}
	r.engines = expirable.NewLRU[engineKey, *Hosted](size, r.onEvict, idleTTL)
	return r
}

func (r *Registry) onEvict(key engineKey, _ *Hosted) {
	log.Debugf("training day engine evicted [client %d, day %d]", key.clientID, key.dayID)
	if r.metrics != nil {
		r.metrics.GaugeLiveEngines.Dec()
	}
}

// Get returns the loaded engine of the client's day, creating it on first use.
// An engine whose load failed is dropped, so the next request starts over.
func (r *Registry) Get(ctx context.Context, authCtx auth.Context, dayID int64) (*Hosted, error) {
	key := engineKey{clientID: authCtx.ClientID, dayID: dayID}

	r.mu.Lock()
	hosted, ok := r.engines.Get(key)
	if ok && hosted.Engine.DayEnded() {
		ok = false
	}
	if ok {
		// Get does not extend the expiry, re-adding the same entry does
		r.engines.Add(key, hosted)
	} else {
		// an expired entry, or the engine of a past day, may still be stored.
		// remove it so it is counted as evicted
		r.engines.Remove(key)

		engine := r.factory(authCtx, dayID)
		hosted = &Hosted{Engine: engine}
		hosted.Gestures = gesture.NewController(func(ctx context.Context, k gesture.Key) error {
			return engine.Delete(ctx, k.ExerciseID, k.SetNumber)
		})
		r.engines.Add(key, hosted)
		if r.metrics != nil {
			r.metrics.GaugeLiveEngines.Inc()
		}
	}
	r.mu.Unlock()

	if err := hosted.Engine.Load(ctx); err != nil {
		if errors.Is(err, setlog.ErrDayLoad) || errors.Is(err, setlog.ErrHalted) {
			r.drop(key, hosted)
		}
		return hosted, err
	}
	return hosted, nil
}

func (r *Registry) drop(key engineKey, hosted *Hosted) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.engines.Peek(key); ok && current == hosted {
		r.engines.Remove(key)
	}
}

func (r *Registry) Len() int {
	return r.engines.Len()
}

func (r *Registry) Purge() {
	r.engines.Purge()
}
