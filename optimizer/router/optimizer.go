package router

import (
	"fmt"

	"github.com/sentium-labs/bridge-optimizer/optimizer/graph"
	"github.com/sentium-labs/bridge-optimizer/optimizer/metrics"
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
	"github.com/sentium-labs/bridge-optimizer/optimizer/nn"
)

// RouteOptimizer is the programmatic surface of the routing core. It owns the
// chain registry, the graph builder, one learned scorer with its parameters,
// and the trainer driving them.
//
// Concurrent inference calls (Optimize, Score) are safe while no Fit or Load
// is in flight; Fit requires exclusive access for its whole duration.
type RouteOptimizer struct {
	registry models.ChainRegistry
	builder  *graph.Builder
	scorer   *nn.Scorer
	trainer  *nn.Trainer
	selector *Selector
}

// Option configures a RouteOptimizer.
type Option func(*config)

type config struct {
	recorder  metrics.Recorder
	heuristic bool
	scorerOpt []nn.ScorerOption
}

// WithRecorder wires a metrics recorder into selection and training.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *config) { c.recorder = r }
}

// WithHeuristicScoring selects candidates with the non-learned cost baseline
// instead of the trained model.
func WithHeuristicScoring() Option {
	return func(c *config) { c.heuristic = true }
}

// WithScorerOptions passes options through to the underlying model, e.g.
// nn.WithSeed for reproducible runs.
func WithScorerOptions(opts ...nn.ScorerOption) Option {
	return func(c *config) { c.scorerOpt = append(c.scorerOpt, opts...) }
}

// New creates a RouteOptimizer over the given chain registry.
func New(registry models.ChainRegistry, opts ...Option) *RouteOptimizer {
	cfg := config{recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := graph.NewBuilder(registry)
	scorer := nn.NewScorer(cfg.scorerOpt...)

	var routeScorer Scorer = NewModelScorer(builder, scorer)
	if cfg.heuristic {
		routeScorer = HeuristicScorer{}
	}

	return &RouteOptimizer{
		registry: registry,
		builder:  builder,
		scorer:   scorer,
		trainer:  nn.NewTrainer(scorer, builder, nn.WithRecorder(cfg.recorder)),
		selector: NewSelector(routeScorer, cfg.recorder),
	}
}

// Optimize validates every candidate and returns the one with the highest
// score. It fails on an empty candidate list.
func (o *RouteOptimizer) Optimize(routes []models.Route) (models.Route, error) {
	if len(routes) == 0 {
		return models.Route{}, ErrNoRoutes
	}
	for i, route := range routes {
		if err := route.Validate(); err != nil {
			return models.Route{}, fmt.Errorf("router: candidate %d: %w", i, err)
		}
	}
	return o.selector.Optimize(routes)
}

// Score returns the learned model's score for a single route.
func (o *RouteOptimizer) Score(route models.Route) (float64, error) {
	if err := route.Validate(); err != nil {
		return 0, fmt.Errorf("router: %w", err)
	}
	g, err := o.builder.Build(route)
	if err != nil {
		return 0, err
	}
	return o.scorer.Score(g), nil
}

// Fit trains the model against labeled examples. Side effect: mutates the
// model parameters; a mid-epoch failure aborts without rolling back updates
// already applied.
func (o *RouteOptimizer) Fit(examples []nn.Example, epochs int, learningRate float64) error {
	return o.trainer.Fit(examples, epochs, learningRate)
}

// Save writes the current model parameters to a checkpoint file.
func (o *RouteOptimizer) Save(path string) error {
	return o.scorer.Params().Save(path)
}

// Load replaces the model parameters from a checkpoint file. It fails if the
// file is missing or its parameter groups don't match the expected shapes.
func (o *RouteOptimizer) Load(path string) error {
	params, err := nn.LoadParameters(path)
	if err != nil {
		return err
	}
	o.scorer.SetParams(params)
	return nil
}
