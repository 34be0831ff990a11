package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MultiDeployer handles deploying a parameter to multiple stores in parallel
type MultiDeployer struct {
	logger zerolog.Logger
}

// NewMultiDeployer creates a new multi-deployer
func NewMultiDeployer(logger zerolog.Logger) *MultiDeployer {
	return &MultiDeployer{logger: logger}
}

// Deploy writes a parameter value to multiple stores concurrently
func (m *MultiDeployer) Deploy(ctx context.Context, stores []Store, name string, value []byte, tags map[string]string) []Result {
	var wg sync.WaitGroup
	resultsChan := make(chan Result, len(stores))

	// Deploy to each store in parallel
	for _, store := range stores {
		wg.Add(1)

		go func(s Store) {
			defer wg.Done()

			start := time.Now()

			m.logger.Debug().
				Str("store", s.Name()).
				Str("type", s.Type()).
				Str("parameter", name).
				Msg("starting deploy")

			deployment, err := s.Deploy(ctx, name, value, tags)
			duration := time.Since(start)

			result := Result{
				StoreName: s.Name(),
				StoreType: s.Type(),
				Success:   err == nil,
				Error:     err,
				Duration:  duration,
			}
			if deployment != nil {
				result.Skipped = deployment.Skipped
				result.Version = deployment.Version
			}

			switch {
			case err != nil:
				m.logger.Error().
					Err(err).
					Str("store", s.Name()).
					Str("parameter", name).
					Dur("duration", duration).
					Msg("deploy failed")
			case result.Skipped:
				m.logger.Info().
					Str("store", s.Name()).
					Str("parameter", name).
					Msg("value unchanged, deploy skipped")
			default:
				m.logger.Info().
					Str("store", s.Name()).
					Str("parameter", name).
					Str("version", result.Version).
					Dur("duration", duration).
					Msg("deploy succeeded")
			}

			resultsChan <- result
		}(store)
	}

	wg.Wait()
	close(resultsChan)

	// Collect results
	var results []Result
	for result := range resultsChan {
		results = append(results, result)
	}

	return results
}

// Delete removes a parameter from multiple stores
func (m *MultiDeployer) Delete(ctx context.Context, stores []Store, name string, includeHistory bool) []Result {
	var wg sync.WaitGroup
	resultsChan := make(chan Result, len(stores))

	for _, store := range stores {
		wg.Add(1)

		go func(s Store) {
			defer wg.Done()

			start := time.Now()
			err := s.Delete(ctx, name, includeHistory)

			resultsChan <- Result{
				StoreName: s.Name(),
				StoreType: s.Type(),
				Success:   err == nil,
				Error:     err,
				Duration:  time.Since(start),
			}
		}(store)
	}

	wg.Wait()
	close(resultsChan)

	var results []Result
	for result := range resultsChan {
		results = append(results, result)
	}

	return results
}
