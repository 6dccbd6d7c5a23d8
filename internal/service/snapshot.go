package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Claves de las colecciones que se leen completas.
const (
	SourceOrders   = "orders"
	SourceUsers    = "users"
	SourceTracking = "tracking"
)

var ErrSourceUnavailable = errors.New("no se pudo leer la colección")

// snapshotLoader comparte una lectura por colección entre todos los pedidos
// simultáneos y, si ttl > 0, la guarda en memoria hasta que venza o se invalide.
// Los slices devueltos se comparten: quien los recibe no debe modificarlos.
type snapshotLoader struct {
	group       singleflight.Group
	ttl         time.Duration
	readTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger

	mu    sync.Mutex
	cache map[string]cachedRead

	// sube con cada Invalidate: una lectura que empezó antes no se guarda
	generation map[string]uint64
}

type cachedRead struct {
	value   any
	expires time.Time
}

func newSnapshotLoader(ttl, readTimeout time.Duration, now func() time.Time, log *zap.Logger) *snapshotLoader {
	return &snapshotLoader{
		ttl:         ttl,
		readTimeout: readTimeout,
		now:         now,
		log:         log,
		cache:       make(map[string]cachedRead),
		generation:  make(map[string]uint64),
	}
}

// Invalidate descarta la copia en memoria de una colección.
func (l *snapshotLoader) Invalidate(key string) {
	l.mu.Lock()
	delete(l.cache, key)
	l.generation[key]++
	l.mu.Unlock()
	l.group.Forget(key)
}

func (l *snapshotLoader) cached(key string) (any, bool) {
	if l.ttl <= 0 {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.cache[key]
	if !ok || !l.now().Before(c.expires) {
		return nil, false
	}
	return c.value, true
}

func (l *snapshotLoader) currentGeneration(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation[key]
}

// store guarda la lectura solo si nadie invalidó la clave mientras se leía.
func (l *snapshotLoader) store(key string, v any, gen uint64) bool {
	if l.ttl <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generation[key] != gen {
		return false
	}
	l.cache[key] = cachedRead{value: v, expires: l.now().Add(l.ttl)}
	return true
}

// load devuelve la colección completa. La lectura compartida no depende del
// contexto de un pedido en particular (solo del timeout de lectura); quien se
// va antes deja de esperar y recibe ctx.Err().
func load[T any](ctx context.Context, l *snapshotLoader, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if v, ok := l.cached(key); ok {
		return v.([]T), nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.readTimeout)
		defer cancel()

		gen := l.currentGeneration(key)
		start := l.now()
		items, err := fetch(readCtx)
		if err != nil {
			return nil, err
		}
		l.log.Debug("snapshot leído",
			zap.String("source", key),
			zap.Int("documents", len(items)),
			zap.Duration("took", l.now().Sub(start)),
		)
		if !l.store(key, items, gen) && l.ttl > 0 {
			l.log.Debug("snapshot invalidado durante la lectura, no se guarda", zap.String("source", key))
		}
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrSourceUnavailable, key, res.Err)
		}
		return res.Val.([]T), nil
	}
}
