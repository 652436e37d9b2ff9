package eta

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"

	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

// RetryPolicy reintentos acotados con backoff exponencial. Solo se reintenta TransientError.
type RetryPolicy struct {
	MaxRetries      int           // reintentos tras el primer intento
	InitialInterval time.Duration // espera antes del primer reintento
	MaxInterval     time.Duration
}

// DefaultRetryPolicy 3 reintentos desde 500 ms.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// Do ejecuta op hasta MaxRetries+1 veces mientras devuelva un error transitorio.
// Cualquier otro error se devuelve de inmediato.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	exp.MaxElapsedTime = 0

	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)

	var last error
	err := backoff.Retry(func() error {
		last = op()
		if last == nil || domaineta.IsTransient(last) {
			return last
		}
		return backoff.Permanent(last)
	}, b)

	if err != nil && last != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return last
	}
	return err
}

// Budget tiempo máximo que puede tardar Do si cada intento agota perAttempt: todos los intentos
// más la espera más larga posible entre ellos (intervalo con jitter, acotado por MaxInterval).
func (p RetryPolicy) Budget(perAttempt time.Duration) time.Duration {
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	initial, maxInterval := p.InitialInterval, p.MaxInterval
	if initial <= 0 {
		initial = backoff.DefaultInitialInterval
	}
	if maxInterval <= 0 {
		maxInterval = backoff.DefaultMaxInterval
	}

	total := time.Duration(maxRetries+1) * perAttempt
	interval := float64(initial)
	for i := 0; i < maxRetries; i++ {
		capped := math.Min(interval, float64(maxInterval))
		total += time.Duration(capped * (1 + backoff.DefaultRandomizationFactor))
		interval *= backoff.DefaultMultiplier
	}
	return total
}
