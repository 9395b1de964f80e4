package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"deriver/internal/analyze"
	"deriver/internal/diagnostic"
	"deriver/internal/gen"
	"deriver/internal/manifest"
	"deriver/internal/plan"
)

// source is the set of aggregates one run derives for.
type source struct {
	aggregates []*analyze.Aggregate
	// filename overrides the generated file name (manifest output).
	filename string
	// warnings are structural warnings from the manifest.
	warnings []diagnostic.Diagnostic
}

func (o *options) load(patterns []string) (*source, error) {
	if o.manifest != "" {
		return o.loadManifest()
	}

	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	aggs, err := analyze.NewAnalyzer(o.logger).LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	return &source{aggregates: aggs}, nil
}

func (o *options) loadManifest() (*source, error) {
	m, err := manifest.LoadFile(o.manifest)
	if err != nil {
		return nil, err
	}

	res := manifest.Validate(m)
	if err := res.Error(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	aggs, err := manifest.ToAggregates(m)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("manifest loaded",
		zap.String("path", o.manifest),
		zap.Int("types", len(aggs)))

	return &source{aggregates: aggs, filename: m.Output, warnings: res.Warnings}, nil
}

// derive loads the aggregates and resolves every capability they declare.
func (o *options) derive(ctx context.Context, patterns []string) (*source, *plan.DerivationPlan, error) {
	src, err := o.load(patterns)
	if err != nil {
		return nil, nil, err
	}

	p, err := plan.NewResolver(plan.DefaultConfig(), o.logger).DeriveAll(ctx, src.aggregates)
	if err != nil {
		return nil, nil, err
	}

	p.Diagnostics.Warnings = append(src.warnings, p.Diagnostics.Warnings...)

	return src, p, nil
}

// generate renders and writes the implementations of p. Nothing is written
// when p has errors.
func (o *options) generate(src *source, p *plan.DerivationPlan) ([]string, error) {
	if p.Diagnostics.HasErrors() {
		return nil, errDiagnostics
	}

	config := gen.DefaultGeneratorConfig()
	config.PackageName = o.pkg
	config.OutputDir = o.outDir
	config.ResolveImports = !o.noImports
	config.GenerateComments = !o.noComment

	if src.filename != "" {
		config.Filename = src.filename
	}

	files, err := gen.NewGenerator(config, o.logger).Generate(p)
	if err != nil {
		return nil, err
	}

	written, err := gen.WriteFiles(files, o.outDir)
	if err != nil {
		return written, err
	}

	for _, path := range written {
		o.logger.Info("file written", zap.String("path", path))
	}

	return written, nil
}
