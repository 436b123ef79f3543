// Package actions binds operator actions to requests against the shopcart
// service and renders each outcome.
package actions

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"shopcartConsole/internal/console/form"
	"shopcartConsole/internal/console/render"
	"shopcartConsole/internal/models"
	"shopcartConsole/internal/services"
)

// Dispatcher sends exactly one request per call.
type Dispatcher interface {
	Send(ctx context.Context, method, path string, body any) (*services.Result, error)
}

// Logger provides minimal logging required by the controller.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Controller runs actions against one form. Several actions may be in flight
// at once; their continuations run one at a time in completion order, so the
// last response to arrive decides what the form and table show.
type Controller struct {
	api      Dispatcher
	binder   *form.Binder
	renderer *render.Renderer
	logger   Logger
	bindings map[Name]binding

	mu       sync.Mutex
	inflight atomic.Int64

	hookMu   sync.RWMutex
	onRender func(render.Snapshot)
}

func NewController(api Dispatcher, state form.State, logger Logger) *Controller {
	binder := form.NewBinder(state)
	return &Controller{
		api:      api,
		binder:   binder,
		renderer: render.NewRenderer(binder, render.NewView()),
		logger:   logger,
		bindings: defaultBindings(),
	}
}

// OnRender registers fn to receive a snapshot after every render.
func (c *Controller) OnRender(fn func(render.Snapshot)) {
	c.hookMu.Lock()
	c.onRender = fn
	c.hookMu.Unlock()
}

// Trigger starts an action. The form is read and the precondition checked
// before Trigger returns; an unmet precondition reports its message and sends
// nothing. The returned channel closes once the outcome is rendered.
func (c *Controller) Trigger(ctx context.Context, name Name) (<-chan struct{}, error) {
	return c.start(ctx, name, nil)
}

// TriggerWith copies raw into the form and starts the action under one lock,
// so a continuation finishing in between cannot overwrite the operator's input.
func (c *Controller) TriggerWith(ctx context.Context, name Name, raw map[string]string) (<-chan struct{}, error) {
	return c.start(ctx, name, raw)
}

func (c *Controller) start(ctx context.Context, name Name, raw map[string]string) (<-chan struct{}, error) {
	b, ok := c.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownAction, name)
	}
	done := make(chan struct{})

	c.mu.Lock()
	if raw != nil {
		c.binder.Apply(raw)
	}
	if b.local != nil {
		b.local(c.renderer)
		c.mu.Unlock()
		c.notify()
		close(done)
		return done, nil
	}

	values := c.binder.Read()
	if len(b.require) > 0 && !values.Has(b.require...) {
		c.renderer.Flash(b.missing)
		c.mu.Unlock()
		c.notify()
		close(done)
		return done, nil
	}
	req := b.build(values)
	c.mu.Unlock()

	c.inflight.Add(1)
	go func() {
		defer close(done)
		defer c.inflight.Add(-1)

		res, err := c.api.Send(ctx, req.method, req.path, req.body)

		c.mu.Lock()
		if err != nil {
			c.logger.Errorf("%s %s %s failed: %v", name, req.method, req.path, err)
			b.failure(c.renderer, err)
		} else if err := b.success(c.renderer, res); err != nil {
			c.logger.Errorf("%s: decode response: %v", name, err)
			b.failure(c.renderer, err)
		} else {
			c.logger.Infof("%s %s %s ok", name, req.method, req.path)
		}
		c.mu.Unlock()
		c.notify()
	}()
	return done, nil
}

// Run triggers an action and waits for its outcome to be rendered.
func (c *Controller) Run(ctx context.Context, name Name) error {
	done, err := c.Trigger(ctx, name)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight reports how many requests have not been rendered yet.
func (c *Controller) InFlight() int64 {
	return c.inflight.Load()
}

func (c *Controller) Snapshot() render.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer.Snapshot()
}

// Known reports whether name is a bound action.
func (c *Controller) Known(name Name) bool {
	_, ok := c.bindings[name]
	return ok
}

func (c *Controller) notify() {
	c.hookMu.RLock()
	fn := c.onRender
	c.hookMu.RUnlock()
	if fn != nil {
		fn(c.Snapshot())
	}
}
