// Package batch runs an augmenter over repeated samples of one string or
// over a list of strings, sequentially or on a pool of workers.
//
// Output order always matches input order: every worker owns a contiguous
// range of result indices and writes only there.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"textaug/internal/augment"
	"textaug/internal/metrics"
)

var tracer = otel.Tracer("textaug.batch")

// Call shapes, used as the mode label in logs and metrics.
const (
	ModeStringSingle = "string_single"
	ModeStringMulti  = "string_multi"
	ModeListSingle   = "list_single"
	ModeListMulti    = "list_multi"
)

// Driver fans augmentation out over items. A Driver is cheap to build and
// safe for concurrent use.
type Driver struct {
	aug    augment.Augmenter
	seed   uint64
	seeded bool
	logger *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithSeed makes every call reproducible: item i always draws from a
// generator derived from (seed, i), whatever the number of workers.
func WithSeed(seed uint64) Option {
	return func(d *Driver) {
		d.seed, d.seeded = seed, true
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func New(aug augment.Augmenter, opts ...Option) *Driver {
	d := &Driver{aug: aug, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Augment dispatches on the shape of data: a string yields n samples, a
// []string yields one output per element and ignores n. numThread selects
// between the sequential and the worker-pool path.
func (d *Driver) Augment(ctx context.Context, data any, n, numThread int) ([]string, error) {
	switch v := data.(type) {
	case string:
		if numThread <= 1 {
			return d.StringSingle(ctx, v, n)
		}
		return d.StringMulti(ctx, v, n, numThread)
	case []string:
		if numThread <= 1 {
			return d.ListSingle(ctx, v)
		}
		return d.ListMulti(ctx, v, numThread)
	default:
		return nil, fmt.Errorf("%w: unsupported data type %T", augment.ErrInvalidInput, data)
	}
}

// StringSingle draws n independent samples of text sequentially.
func (d *Driver) StringSingle(ctx context.Context, text string, n int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n %d is negative", augment.ErrInvalidInput, n)
	}
	return d.run(ctx, ModeStringSingle, n, 1, func(int) string { return text })
}

// StringMulti draws n independent samples of text on up to numThread
// workers.
func (d *Driver) StringMulti(ctx context.Context, text string, n, numThread int) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n %d is negative", augment.ErrInvalidInput, n)
	}
	return d.run(ctx, ModeStringMulti, n, clampWorkers(numThread, n), func(int) string { return text })
}

// ListSingle augments every element of texts sequentially.
func (d *Driver) ListSingle(ctx context.Context, texts []string) ([]string, error) {
	return d.run(ctx, ModeListSingle, len(texts), 1, func(i int) string { return texts[i] })
}

// ListMulti augments the elements of texts on up to numThread workers.
func (d *Driver) ListMulti(ctx context.Context, texts []string, numThread int) ([]string, error) {
	return d.run(ctx, ModeListMulti, len(texts), clampWorkers(numThread, len(texts)), func(i int) string { return texts[i] })
}

func (d *Driver) run(ctx context.Context, mode string, n, workers int, input func(int) string) (out []string, err error) {
	ctx, span := tracer.Start(ctx, "batch."+mode,
		trace.WithAttributes(
			attribute.String("augmenter", d.aug.Name()),
			attribute.Int("items", n),
			attribute.Int("workers", workers),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ObserveBatch(d.aug.Name(), mode, n, workers, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	base := d.seed
	if !d.seeded {
		base = rand.Uint64()
	}
	d.logger.Debug("augment batch",
		slog.String("augmenter", d.aug.Name()),
		slog.String("mode", mode),
		slog.Int("items", n),
		slog.Int("workers", workers))

	out = make([]string, n)
	if workers <= 1 {
		if err := d.fill(ctx, out, 0, n, base, input); err != nil {
			return nil, err
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	lo := 0
	for _, size := range Split(n, workers) {
		from, to := lo, lo+size
		lo = to
		if size == 0 {
			continue
		}
		g.Go(func() error {
			return d.fill(gctx, out, from, to, base, input)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fill augments items [from, to) into out.
func (d *Driver) fill(ctx context.Context, out []string, from, to int, base uint64, input func(int) string) error {
	for i := from; i < to; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := d.one(input(i), base, i)
		if err != nil {
			return err
		}
		out[i] = s
	}
	return nil
}

// one augments a single item. A panic inside the augmenter fails the item,
// and with it the whole call.
func (d *Driver) one(text string, base uint64, i int) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("augment item %d: %v", i, r)
			d.logger.Error("augmenter panicked",
				slog.String("augmenter", d.aug.Name()),
				slog.Int("item", i),
				slog.Any("panic", r))
		}
	}()
	rng := rand.New(rand.NewPCG(base, uint64(i)))
	return d.aug.Augment(text, rng), nil
}

func clampWorkers(numThread, items int) int {
	return max(1, min(numThread, items))
}

// Split divides n items into k contiguous chunks whose sizes differ by at
// most one; the first n%k chunks get the extra item.
func Split(n, k int) []int {
	if k <= 0 {
		return nil
	}
	sizes := make([]int, k)
	base, rem := n/k, n%k
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}
