package nn

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sentium-labs/bridge-optimizer/optimizer/graph"
	"github.com/sentium-labs/bridge-optimizer/optimizer/metrics"
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
)

var trainerLog zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	trainerLog = zerolog.New(out).With().Timestamp().Str("component", "trainer").Logger()
}

// SetLogger allows setting a custom logger for training output.
func SetLogger(l zerolog.Logger) {
	trainerLog = l.With().Str("component", "trainer").Logger()
}

// ErrShapeMismatch is returned when a minibatch's graphs and labels diverge.
var ErrShapeMismatch = errors.New("nn: graphs and labels count mismatch")

// BatchSize is the fixed minibatch size used during fitting.
const BatchSize = 32

// Example is one labeled training pair: a route and its target score.
type Example struct {
	Route  models.Route
	Target float64
}

// Trainer fits a Scorer's parameters against labeled examples with minibatch
// gradient descent. It needs exclusive access to the scorer for the duration
// of a Fit call; concurrent Fit calls against the same scorer are not allowed.
type Trainer struct {
	scorer   *Scorer
	builder  *graph.Builder
	recorder metrics.Recorder
	shuffle  bool
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithRecorder wires a metrics recorder for per-epoch loss observation.
func WithRecorder(r metrics.Recorder) TrainerOption {
	return func(t *Trainer) { t.recorder = r }
}

// WithShuffle enables randomized example order between epochs. Off by
// default: examples are consumed in input order every epoch.
func WithShuffle(enabled bool) TrainerOption {
	return func(t *Trainer) { t.shuffle = enabled }
}

// NewTrainer creates a Trainer driving the given scorer and graph builder.
func NewTrainer(scorer *Scorer, builder *graph.Builder, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		scorer:   scorer,
		builder:  builder,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit trains for the given number of epochs at the given learning rate.
// A failure mid-epoch (e.g. a malformed route) aborts the whole call; updates
// already applied are not rolled back. Callers needing resumability should
// checkpoint between Fit calls.
func (t *Trainer) Fit(examples []Example, epochs int, learningRate float64) error {
	if len(examples) == 0 {
		return fmt.Errorf("nn: no training examples")
	}

	opt := newAdam(learningRate)

	order := make([]int, len(examples))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		if t.shuffle {
			rand.New(rand.NewSource(int64(epoch))).Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		totalLoss := 0.0
		batches := 0

		for start := 0; start < len(order); start += BatchSize {
			end := min(start+BatchSize, len(order))

			loss, err := t.step(examples, order[start:end], opt)
			if err != nil {
				return fmt.Errorf("nn: epoch %d batch %d: %w", epoch+1, batches+1, err)
			}

			totalLoss += loss
			batches++
		}

		avgLoss := totalLoss / float64(batches)
		t.recorder.SetGauge("train_epoch_loss", avgLoss, nil)
		t.recorder.IncCounter("train_epochs_total", nil)

		if (epoch+1)%10 == 0 {
			trainerLog.Info().Int("epoch", epoch+1).Int("epochs", epochs).Float64("loss", avgLoss).Msg("Training progress")
		} else {
			trainerLog.Debug().Int("epoch", epoch+1).Float64("loss", avgLoss).Msg("Epoch done")
		}
	}

	return nil
}

// step runs one minibatch: build graphs, forward in training mode, MSE loss,
// backward, one Adam update. Returns the batch loss.
func (t *Trainer) step(examples []Example, idx []int, opt *adam) (float64, error) {
	graphs := make([]*graph.RouteGraph, 0, len(idx))
	labels := make([]float64, 0, len(idx))

	for _, i := range idx {
		g, err := t.builder.Build(examples[i].Route)
		if err != nil {
			return 0, fmt.Errorf("build graph for example %d: %w", i, err)
		}
		graphs = append(graphs, g)
		labels = append(labels, examples[i].Target)
	}

	if len(graphs) != len(labels) {
		return 0, ErrShapeMismatch
	}

	batch := graph.NewBatch(graphs)
	cache := t.scorer.forward(batch, Training)

	if rows, _ := cache.out.Dims(); rows != len(labels) {
		return 0, ErrShapeMismatch
	}

	loss, dOut := mseLoss(cache.out, labels)
	grads := t.scorer.backward(cache, dOut)
	opt.update(t.scorer.params, grads)

	t.recorder.IncCounter("train_steps_total", nil)

	return loss, nil
}
