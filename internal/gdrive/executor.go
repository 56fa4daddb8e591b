package gdrive

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

// maxAttempts bounds rate-limited retries. The fifth rate-limited
// attempt fails fatally.
const maxAttempts = 5

// outcome classifies a remote failure. Classification happens before
// any retry decision, so callers never see transient errors and never
// have to distinguish "does not exist" from "failed".
type outcome int

const (
	outcomeFatal outcome = iota
	outcomeAbsorb
	outcomeRetry
)

// classify maps a transport error onto the retry taxonomy using the
// structured googleapi error type, never its message text.
//
// Not-found and gone/conflict states are absorbable: they are ordinary
// "nothing to do" answers, not failures. Rate-limit rejections (429,
// or 403 carrying a rate-limit reason code) are retryable. Everything
// else is fatal.
func classify(err error) outcome {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return outcomeFatal
	}

	switch gerr.Code {
	case http.StatusNotFound, http.StatusGone, http.StatusConflict:
		return outcomeAbsorb
	case http.StatusTooManyRequests:
		return outcomeRetry
	case http.StatusForbidden:
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				return outcomeRetry
			}
		}

		return outcomeFatal
	default:
		return outcomeFatal
	}
}

// backoff computes the delay before retry number attempt (0-based):
// 2^attempt seconds plus a full-jitter fraction drawn from [0, 1).
// The jitter desynchronizes concurrent clients draining one quota.
func backoff(attempt int, jitter float64) time.Duration {
	return time.Duration((math.Pow(2, float64(attempt)) + jitter) * float64(time.Second))
}

// Executor wraps every remote call with bounded retry and failure
// classification. It is stateless across calls; one instance may be
// shared by every component holding the same transport.
type Executor struct {
	logger *slog.Logger

	// sleep and jitter are replaced in tests to observe backoff
	// without real delays.
	sleep  func(time.Duration)
	jitter func() float64
}

// NewExecutor returns an executor reporting through logger. A nil
// logger disables observability output.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Executor{
		logger: logger,
		sleep:  time.Sleep,
		jitter: rand.Float64,
	}
}

// Do runs call until it succeeds, its failure is absorbed, or it fails
// fatally. It returns (true, nil) on success, (false, nil) when the
// outcome was absorbed as "nothing there", and (false, err) on a fatal
// failure, including rate-limit exhaustion.
func (e *Executor) Do(op string, call func() error) (bool, error) {
	for attempt := 0; ; attempt++ {
		e.logger.Debug("remote call", "op", op, "attempt", attempt+1)

		err := call()
		if err == nil {
			return true, nil
		}

		switch classify(err) {
		case outcomeAbsorb:
			e.logger.Debug("remote call absorbed", "op", op, "error", err)

			return false, nil
		case outcomeRetry:
			if attempt+1 >= maxAttempts {
				e.logger.Error("rate limited, retries exhausted", "op", op, "attempts", attempt+1)

				return false, fmt.Errorf("%s: rate limited after %d attempts: %w", op, maxAttempts, err)
			}

			delay := backoff(attempt, e.jitter())
			e.logger.Warn("rate limited, backing off",
				"op", op,
				"attempt", attempt+1,
				"backoff", delay,
			)
			e.sleep(delay)
		default:
			e.logger.Error("remote call failed", "op", op, "error", err)

			return false, fmt.Errorf("%s: %w", op, err)
		}
	}
}
