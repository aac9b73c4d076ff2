package bootstrap

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/prep/internal/adapters/apt"
	"go.trai.ch/prep/internal/adapters/logger"
	"go.trai.ch/prep/internal/adapters/probe"
	"go.trai.ch/prep/internal/adapters/telemetry/progrock"
	"go.trai.ch/prep/internal/core/ports"
)

const NodeID graft.ID = "engine.bootstrap"

func init() {
	graft.Register(graft.Node[*Step]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			apt.NodeID,
			probe.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Step, error) {
			manager, err := graft.Dep[ports.PackageManager](ctx)
			if err != nil {
				return nil, err
			}
			verifier, err := graft.Dep[ports.Verifier](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStep(manager, verifier, telemetry, log), nil
		},
	})
}
