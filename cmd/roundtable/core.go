package main

import (
	"fmt"

	"mercator-hq/roundtable/pkg/config"
	"mercator-hq/roundtable/pkg/gate"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/turns"
)

// core holds the engine parts derived from configuration alone.
type core struct {
	classifier *intent.KeywordClassifier
	allocator  *turns.Allocator
	gate       *gate.Gate
}

func buildCore(cfg *config.Config) (*core, error) {
	classifier := intent.NewDefaultClassifier()
	if cfg.Intent.TableFile != "" {
		if err := classifier.Reload(cfg.Intent.TableFile); err != nil {
			return nil, fmt.Errorf("failed to load intent table: %w", err)
		}
	}

	weights, err := turns.DefaultWeights().Override(cfg.Turns.Weights)
	if err != nil {
		return nil, fmt.Errorf("invalid turn weights: %w", err)
	}

	return &core{
		classifier: classifier,
		allocator:  turns.NewAllocator(weights),
		gate:       gate.New(cfg.Gate.DefaultCallCap, cfg.Gate.DeepCallCap),
	}, nil
}
