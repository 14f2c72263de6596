// Package service contains infrastructure services that sit between the
// domain contracts and the raw storage layers.
package service

import (
	"context"
	"time"

	"github.com/mentorhub/mentorship-hub/internal/domain/availability"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
	"github.com/mentorhub/mentorship-hub/pkg/circuitbreaker"
	"github.com/mentorhub/mentorship-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY ORACLE
// Answers "does this mentor have a bookable future slot" for the
// scorer. The lookup runs behind a circuit breaker and fails OPEN: when
// the data cannot be read, mentors are treated as available rather than
// silently vanishing from everyone's suggestions.
// ══════════════════════════════════════════════════════════════════════════════

// AvailabilityOracle implements availability.Oracle over the repository.
type AvailabilityOracle struct {
	repo    availability.Repository
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
	timeout time.Duration
}

// OracleConfig tunes the breaker and the per-lookup budget.
type OracleConfig struct {
	// LookupTimeout - per-call budget for one availability count.
	LookupTimeout time.Duration

	// FailureThreshold - consecutive failures before the circuit opens.
	FailureThreshold int

	// Cooldown - how long the circuit stays open before probing.
	Cooldown time.Duration
}

// DefaultOracleConfig returns the production defaults.
func DefaultOracleConfig() OracleConfig {
	return OracleConfig{
		LookupTimeout:    2 * time.Second,
		FailureThreshold: 5,
		Cooldown:         15 * time.Second,
	}
}

// NewAvailabilityOracle creates the oracle with default settings. The
// breaker stops a broken availability table from adding a failed query
// per candidate to every ranking request.
func NewAvailabilityOracle(repo availability.Repository, log *logger.Logger) *AvailabilityOracle {
	return NewAvailabilityOracleWithConfig(repo, DefaultOracleConfig(), log)
}

// NewAvailabilityOracleWithConfig creates the oracle with explicit
// breaker settings. Zero values fall back to the defaults.
func NewAvailabilityOracleWithConfig(repo availability.Repository, cfg OracleConfig, log *logger.Logger) *AvailabilityOracle {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("availability_oracle"))

	defaults := DefaultOracleConfig()
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaults.LookupTimeout
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}

	breaker := circuitbreaker.New("availability",
		circuitbreaker.WithFailureThreshold(cfg.FailureThreshold),
		circuitbreaker.WithTimeout(cfg.Cooldown),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		}))

	return &AvailabilityOracle{
		repo:    repo,
		breaker: breaker,
		log:     log,
		timeout: cfg.LookupTimeout,
	}
}

// HasFutureAvailability reports whether the mentor has any available
// future slot. Failures degrade to Available=false with Degraded set,
// so a broken store never awards a bonus while the caller can still
// tell a real "no slots" answer from a failed lookup.
func (o *AvailabilityOracle) HasFutureAvailability(ctx context.Context, mentorID shared.UserID) availability.Check {
	var count int

	err := o.breaker.Execute(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()

		n, err := o.repo.CountFutureAvailable(ctx, mentorID)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		o.log.Warn("availability lookup degraded",
			logger.MentorID(string(mentorID)),
			logger.Err(err))
		return availability.Check{Degraded: true}
	}

	return availability.Check{Available: count > 0}
}
