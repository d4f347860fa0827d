package comparison

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/evcraddock/invest-compare/internal/engine"
	"github.com/evcraddock/invest-compare/internal/metrics"
)

// Service runs comparisons and keeps their history.
type Service struct {
	repo    *Repository
	cache   Cache
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewService creates a comparison service. cache, m and log may be nil.
func NewService(repo *Repository, cache Cache, m *metrics.Metrics, log *zap.Logger) *Service {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	if cache == nil {
		cache = nopCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, metrics: m, log: log}
}

// Calculate validates an input and runs the engine without storing anything.
func (s *Service) Calculate(in engine.Input) (engine.Result, error) {
	if err := ValidateInput(in); err != nil {
		s.metrics.ComparisonFailed(metrics.ReasonInvalid)
		return engine.Result{}, err
	}

	start := time.Now()
	res, err := engine.Compare(in)
	s.metrics.ObserveCalculation(time.Since(start))
	if err != nil {
		s.metrics.ComparisonFailed(metrics.ReasonInvalid)
		return engine.Result{}, err
	}
	return res, nil
}

// Create computes a comparison and appends it to the history. Storage errors
// are returned wrapped and are not retried.
func (s *Service) Create(ctx context.Context, in engine.Input) (*Comparison, error) {
	res, err := s.Calculate(in)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Insert(ctx, NewComparison(in, res))
	if err != nil {
		s.metrics.ComparisonFailed(metrics.ReasonStorage)
		return nil, fmt.Errorf("saving comparison: %w", err)
	}
	s.metrics.ComparisonCreated(string(saved.BetterInvestment))

	if err := s.cache.Set(ctx, saved); err != nil {
		s.log.Warn("caching comparison", zap.Int64("id", saved.ID), zap.Error(err))
	}

	s.log.Info("comparison created",
		zap.Int64("id", saved.ID),
		zap.String("better_investment", string(saved.BetterInvestment)),
		zap.Float64("profit_difference", saved.ProfitDifference),
	)
	return saved, nil
}

// Get returns a stored comparison. found is false when the ID is unknown.
func (s *Service) Get(ctx context.Context, id int64) (*Comparison, bool, error) {
	c, hit, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn("reading comparison cache", zap.Int64("id", id), zap.Error(err))
	}
	s.metrics.CacheLookup(hit)
	if hit {
		return c, true, nil
	}

	c, found, err := s.repo.GetByID(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}

	if err := s.cache.Set(ctx, c); err != nil {
		s.log.Warn("caching comparison", zap.Int64("id", id), zap.Error(err))
	}
	return c, true, nil
}

// History returns stored comparisons, newest first.
func (s *Service) History(ctx context.Context, opts ListOptions) ([]*Comparison, error) {
	return s.repo.List(ctx, opts)
}

// Schedule recomputes the yearly breakdown of a stored comparison.
func (s *Service) Schedule(ctx context.Context, id int64) ([]engine.Year, bool, error) {
	c, found, err := s.Get(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}

	years, err := engine.Schedule(c.Input)
	if err != nil {
		return nil, true, fmt.Errorf("scheduling comparison %d: %w", id, err)
	}
	return years, true, nil
}

// Chart renders the PNG chart of a stored comparison.
func (s *Service) Chart(ctx context.Context, id int64) ([]byte, bool, error) {
	c, found, err := s.Get(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}

	years, err := engine.Schedule(c.Input)
	if err != nil {
		return nil, true, fmt.Errorf("scheduling comparison %d: %w", id, err)
	}

	png, err := RenderChart(c.Input, years)
	if err != nil {
		return nil, true, err
	}
	return png, true, nil
}
