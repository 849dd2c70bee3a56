// Package engine assembles the catalog, validation pipeline, and webhook
// manager into one explicitly constructed value owned by the transport
// layer. Grounded on the lineage's Repositories/Services aggregator
// pattern, replacing the distilled source's module-level singletons
// (SPEC_FULL.md §9).
package engine

import (
	"pharmaguard/internal/catalog"
	"pharmaguard/internal/ddi"
	"pharmaguard/internal/validation"
	"pharmaguard/internal/webhook"
)

// Engine owns every subcomponent a request handler needs. It is safe for
// concurrent use: the catalog is read-mostly under its own lock, the
// validation pipeline is a pure function of its inputs, and the webhook
// manager's mutation is serialized inside its store.
type Engine struct {
	Catalog    *catalog.Catalog
	Pipeline   *validation.Pipeline
	Webhooks   *webhook.Manager
}

// Options configures optional Engine behavior at construction time.
type Options struct {
	EnableEnsemble bool
}

func New(cat *catalog.Catalog, webhooks *webhook.Manager, opts Options) *Engine {
	var pipelineOpts []validation.Option
	if opts.EnableEnsemble {
		pipelineOpts = append(pipelineOpts, validation.WithEnsemble(ddi.NewEnsemble()))
	}

	return &Engine{
		Catalog:  cat,
		Pipeline: validation.NewPipeline(cat, pipelineOpts...),
		Webhooks: webhooks,
	}
}
