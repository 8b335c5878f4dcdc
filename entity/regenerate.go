package entity

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/milk9111/spritepreview/blend"
	"github.com/milk9111/spritepreview/dye"
	"github.com/milk9111/spritepreview/pose"
)

// Inputs is a snapshot of everything a sprite's frames are built from.
type Inputs struct {
	Kind      pose.Kind
	Size      int
	Index     int
	Sheet     image.Image
	Mask      image.Image
	Clothing  dye.Dye
	Accessory dye.Dye
}

// Outcome is the result of the newest regeneration request.
type Outcome struct {
	Generation uint64
	Set        *pose.Set
	Err        error
}

type resolved struct {
	gen uint64
	in  Inputs
	err error
}

// Regenerator rebuilds pose sets off the back of input changes. Dye
// textures are resolved on a background goroutine; Poll builds and returns
// only the most recently requested generation. Results of superseded
// requests are dropped.
type Regenerator struct {
	Cache   *dye.Cache
	Blender blend.Blender
	// Scale is passed to the blender; zero means blend.DefaultScale.
	Scale int
	// Build defaults to pose.Build.
	Build func(context.Context, pose.Input) (*pose.Set, error)

	base    context.Context
	stop    context.CancelFunc
	gen     atomic.Uint64
	results chan resolved
	wg      sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewRegenerator creates a regenerator whose work is bounded by ctx.
func NewRegenerator(ctx context.Context, cache *dye.Cache, blender blend.Blender) *Regenerator {
	base, stop := context.WithCancel(ctx)
	return &Regenerator{
		Cache:   cache,
		Blender: blender,
		Build:   pose.Build,
		base:    base,
		stop:    stop,
		results: make(chan resolved, 8),
	}
}

// Generation returns the id of the newest request.
func (r *Regenerator) Generation() uint64 { return r.gen.Load() }

// Request starts regenerating from in and returns its generation id. Any
// earlier request still resolving is cancelled.
func (r *Regenerator) Request(in Inputs) uint64 {
	ctx, cancel := context.WithCancel(r.base)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	gen := r.gen.Add(1)
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()

		var err error
		if r.Cache != nil {
			err = r.Cache.Resolve(ctx, in.Clothing, in.Accessory)
		}
		if gen != r.gen.Load() {
			return
		}
		select {
		case r.results <- resolved{gen: gen, in: in, err: err}:
		case <-r.base.Done():
		}
	}()
	return gen
}

// Poll drains finished requests without blocking. When the newest
// generation is among them it is built and returned with ok true. Poll must
// run on the thread that owns the graphics context.
func (r *Regenerator) Poll() (out Outcome, ok bool) {
	var latest *resolved
	for {
		select {
		case res := <-r.results:
			if res.gen == r.gen.Load() {
				latest = &res
			}
			continue
		default:
		}
		break
	}
	// a newer request may have been made while draining
	if latest == nil || latest.gen != r.gen.Load() {
		return Outcome{}, false
	}

	out.Generation = latest.gen
	if latest.err != nil {
		out.Err = latest.err
		return out, true
	}
	out.Set, out.Err = r.build(latest.in)
	return out, true
}

func (r *Regenerator) build(in Inputs) (*pose.Set, error) {
	clothing, err := r.tint(in.Clothing)
	if err != nil {
		return nil, err
	}
	accessory, err := r.tint(in.Accessory)
	if err != nil {
		return nil, err
	}
	build := r.Build
	if build == nil {
		build = pose.Build
	}
	return build(r.base, pose.Input{
		Kind:      in.Kind,
		Sheet:     in.Sheet,
		Mask:      in.Mask,
		Clothing:  clothing,
		Accessory: accessory,
		Size:      in.Size,
		Index:     in.Index,
		Blender:   r.Blender,
		Scale:     r.Scale,
	})
}

func (r *Regenerator) tint(d dye.Dye) (blend.Tint, error) {
	if d.IsZero() {
		return blend.NoTint(), nil
	}
	if r.Cache == nil {
		if d.Kind == dye.Flat {
			return blend.FlatTint(d.Color), nil
		}
		return blend.Tint{}, dye.ErrUnresolved
	}
	return r.Cache.Tint(d)
}

// Wait blocks until every background resolve has finished.
func (r *Regenerator) Wait() { r.wg.Wait() }

// Close cancels outstanding work and waits for it to stop.
func (r *Regenerator) Close() {
	r.stop()
	r.wg.Wait()
}
