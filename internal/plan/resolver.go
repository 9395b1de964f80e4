package plan

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"deriver/internal/analyze"
	"deriver/internal/annotation"
	"deriver/internal/capability"
	"deriver/internal/diagnostic"
)

// ResolverConfig holds configuration for the resolution process.
type ResolverConfig struct {
	// Workers bounds how many aggregates DeriveAll processes concurrently.
	// Zero means GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolverConfig {
	return ResolverConfig{
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Handler derives one capability for one aggregate. Handlers are pure:
// they read their inputs, may append infos or warnings to diags, and either
// return an implementation or a *diagnostic.Error.
type Handler func(agg *analyze.Aggregate, active capability.Set, diags *diagnostic.Diagnostics) (*Implementation, error)

// DefaultHandlers returns the handlers shipped with the deriver.
func DefaultHandlers() map[capability.Capability]Handler {
	return map[capability.Capability]Handler{
		capability.Default: func(agg *analyze.Aggregate, active capability.Set, _ *diagnostic.Diagnostics) (*Implementation, error) {
			return DeriveDefault(agg, active)
		},
		capability.Deref: func(agg *analyze.Aggregate, active capability.Set, diags *diagnostic.Diagnostics) (*Implementation, error) {
			return deriveFieldAccess(capability.Deref, agg, active, diags)
		},
		capability.DerefMut: func(agg *analyze.Aggregate, active capability.Set, diags *diagnostic.Diagnostics) (*Implementation, error) {
			return deriveFieldAccess(capability.DerefMut, agg, active, diags)
		},
	}
}

// Resolver dispatches the declared capabilities of aggregates to handlers.
// It holds no per-derivation state and may be shared between goroutines
// once all handlers are registered.
type Resolver struct {
	config   ResolverConfig
	handlers map[capability.Capability]Handler
	logger   *zap.Logger
}

// NewResolver creates a new Resolver with the default handlers. A nil
// logger disables logging.
func NewResolver(config ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		config:   config,
		handlers: DefaultHandlers(),
		logger:   logger,
	}
}

// Register installs or replaces the handler of c. It is not safe to call
// concurrently with Derive or DeriveAll; register before deriving.
func (r *Resolver) Register(c capability.Capability, h Handler) {
	r.handlers[c] = h
}

// ActiveCapabilities collects the capabilities declared in the type-level
// derive attributes of agg.
func ActiveCapabilities(agg *analyze.Aggregate) (capability.Set, error) {
	var (
		caps []capability.Capability
		seen = make(map[capability.Capability]bool)
	)

	for _, attribute := range agg.Annotations.Derive() {
		if attribute.Kind != annotation.KindList {
			return capability.Set{}, diagnostic.MalformedAnnotationTree(
				"the "+annotation.Attribute+" attribute must be a list of capabilities", attribute.Pos)
		}

		for _, item := range attribute.Items {
			if item.Meta == nil {
				return capability.Set{}, diagnostic.MalformedAnnotationTree(
					"expected a capability name, found literal "+item.String(), item.Pos())
			}

			c, ok := capability.Parse(item.Meta.Name)
			if !ok {
				return capability.Set{}, diagnostic.UnknownCapability(
					item.Meta.Name, capability.Suggest(item.Meta.Name), item.Meta.Pos)
			}

			if seen[c] {
				return capability.Set{}, diagnostic.CapabilityReused(c.String(), item.Meta.Pos)
			}

			seen[c] = true
			caps = append(caps, c)
		}
	}

	return capability.NewSet(caps...), nil
}

// Derive runs every declared capability of agg. A failing capability is
// recorded in the result's diagnostics and does not stop the others.
func (r *Resolver) Derive(agg *analyze.Aggregate) TypeResult {
	result := TypeResult{Aggregate: agg}

	active, err := ActiveCapabilities(agg)
	if err != nil {
		result.Diagnostics.Report(err, agg.Name)
		r.logger.Debug("capability set rejected", zap.String("type", agg.ID()), zap.Error(err))

		return result
	}

	result.Active = active

	for _, c := range active.Slice() {
		handler, ok := r.handlers[c]
		if !ok {
			result.Diagnostics.Infos = append(result.Diagnostics.Infos, diagnostic.Diagnostic{
				Severity:   diagnostic.DiagnosticInfo,
				Code:       "no_handler",
				Message:    "capability has no generator and is left to other tools",
				TypeName:   agg.Name,
				Capability: c.String(),
				Pos:        agg.Pos,
			})

			continue
		}

		impl, err := handler(agg, active, &result.Diagnostics)
		if err != nil {
			d := diagnostic.FromError(err, agg.Name)
			d.Capability = c.String()
			result.Diagnostics.Errors = append(result.Diagnostics.Errors, d)

			r.logger.Debug("capability failed",
				zap.String("type", agg.ID()),
				zap.Stringer("capability", c),
				zap.Error(err))

			continue
		}

		result.Implementations = append(result.Implementations, *impl)

		r.logger.Debug("capability derived",
			zap.String("type", agg.ID()),
			zap.Stringer("capability", c),
			zap.Int("constraints", len(impl.Constraints)))
	}

	return result
}

// DeriveAll derives every aggregate. Distinct aggregates share no state, so
// they are processed concurrently; results keep the input order.
func (r *Resolver) DeriveAll(ctx context.Context, aggs []*analyze.Aggregate) (*DerivationPlan, error) {
	results := make([]TypeResult, len(aggs))

	g, ctx := errgroup.WithContext(ctx)

	workers := r.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g.SetLimit(workers)

	for i, agg := range aggs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = r.Derive(agg)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := &DerivationPlan{Types: results}
	for _, res := range results {
		p.Diagnostics.Merge(res.Diagnostics)
	}

	r.logger.Info("derivation finished",
		zap.Int("types", len(aggs)),
		zap.Int("implementations", len(p.Implementations())),
		zap.Int("errors", len(p.Diagnostics.Errors)))

	return p, nil
}
