package app

import (
	"context"
	"fmt"

	"github.com/vk/dagnet/internal/ctxlog"
	"github.com/vk/dagnet/internal/dag"
	"github.com/vk/dagnet/internal/netdef"
	"github.com/vk/dagnet/internal/workspace"
)

// Run loads the configured net definition and executes it against a fresh
// workspace. The workspace is returned even when execution fails, so
// callers can inspect whatever blobs were produced before the abort.
func (a *App) Run(ctx context.Context) (*workspace.Workspace, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	net, err := netdef.Load(ctx, a.config.NetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load net definition: %w", err)
	}
	a.logger.Info("Net definition loaded.", "net", net.Name, "type", net.Type, "ops", len(net.Ops))

	ws := workspace.New()
	return ws, a.RunNet(ctx, net, ws)
}

// RunNet executes an already-loaded net definition against a workspace.
// The dependency graph is built and validated for both net types, so
// definition errors surface identically regardless of executor; only
// scheduling differs.
func (a *App) RunNet(ctx context.Context, net *netdef.Net, ws *workspace.Workspace) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	ops, err := a.registry.InstantiateAll(ctx, net, ws)
	if err != nil {
		return fmt.Errorf("failed to instantiate net: %w", err)
	}

	infos := make([]dag.OpInfo, len(net.Ops))
	for i, opDef := range net.Ops {
		infos[i] = dag.OpInfo{
			Name:          opDef.Name,
			Inputs:        opDef.Inputs,
			Outputs:       opDef.Outputs,
			ControlInputs: opDef.ControlInputs,
		}
	}
	graph, err := dag.Build(ctx, infos)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "nodes", len(graph.Nodes), "edges", graph.EdgeCount())

	if len(ops) == 0 {
		a.logger.Warn("Net contains no ops, nothing to execute.")
		return nil
	}

	workers := a.config.WorkerCount
	if net.NumWorkers > 0 {
		workers = net.NumWorkers
	}

	switch net.Type {
	case netdef.NetTypeSimple:
		a.logger.Info("Starting sequential execution.", "ops", len(ops))
		if err := dag.NewSimpleExecutor(ops).Run(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	case netdef.NetTypeDag:
		exec, err := dag.NewExecutor(graph, ops, workers)
		if err != nil {
			return err
		}
		a.logger.Info("Starting concurrent execution.", "ops", len(ops), "workers", workers)
		if err := exec.Run(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown net type %q", net.Type)
	}

	a.logger.Info("Execution finished.")
	return nil
}
