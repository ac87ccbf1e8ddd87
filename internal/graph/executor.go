package graph

import (
	"context"
	"fmt"

	"feedgraph/internal/dataloader"
)

// Request is one graph operation: a root operation name, its arguments and
// the selection applied to its result.
type Request struct {
	Operation string         `json:"operation" binding:"required"`
	Variables map[string]any `json:"variables"`
	Fields    string         `json:"fields"`
}

type Result struct {
	Data   any `json:"data"`
	Passes int `json:"-"`
}

// LoaderFactory builds a fresh set of loaders for one request.
type LoaderFactory func() *dataloader.Loaders

// Executor runs a request breadth-first. Each pass resolves every field of
// the objects produced by the previous pass; relation fields queue their
// keys, the pass ends with one FlushAll, and only then are the deferred
// values read.
type Executor struct {
	resolver   *Resolver
	ops        map[string]operation
	newLoaders LoaderFactory
}

func NewExecutor(resolver *Resolver, newLoaders LoaderFactory) *Executor {
	return &Executor{
		resolver:   resolver,
		ops:        resolver.operations(),
		newLoaders: newLoaders,
	}
}

// node is an object awaiting field resolution; out is the map already
// linked into the response tree.
type node struct {
	obj any
	sel Selection
	out map[string]any
}

type pendingField struct {
	node     *node
	field    Field
	deferred Deferred
}

func (e *Executor) Execute(ctx context.Context, req Request) (*Result, error) {
	op, ok := e.ops[req.Operation]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}
	sel, err := ParseSelection(req.Fields)
	if err != nil {
		return nil, err
	}

	if dataloader.From(ctx) == nil {
		ctx = dataloader.WithLoaders(ctx, e.newLoaders())
	}

	root, err := op(ctx, Variables(req.Variables))
	if err != nil {
		return nil, err
	}

	var queue []*node
	data, err := shape(root, sel, &queue)
	if err != nil {
		return nil, err
	}

	passes := 0
	for len(queue) > 0 {
		passes++
		if queue, err = e.pass(ctx, queue); err != nil {
			return nil, err
		}
	}
	return &Result{Data: data, Passes: passes}, nil
}

func (e *Executor) pass(ctx context.Context, nodes []*node) ([]*node, error) {
	var next []*node
	var pending []pendingField

	for _, n := range nodes {
		for _, f := range n.selection() {
			v, err := e.resolver.field(ctx, n.obj, f.Name)
			if err != nil {
				return nil, err
			}
			if d, ok := v.(Deferred); ok {
				pending = append(pending, pendingField{node: n, field: f, deferred: d})
				continue
			}
			if n.out[f.Name], err = shape(v, f.Children, &next); err != nil {
				return nil, err
			}
		}
	}

	if len(pending) == 0 {
		return next, nil
	}
	if err := dataloader.From(ctx).FlushAll(ctx); err != nil {
		return nil, err
	}
	for _, p := range pending {
		v, err := p.deferred(ctx)
		if err != nil {
			return nil, err
		}
		if p.node.out[p.field.Name], err = shape(v, p.field.Children, &next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (n *node) selection() Selection {
	if len(n.sel) > 0 {
		return n.sel
	}
	names := defaultFields[typeName(n.obj)]
	sel := make(Selection, 0, len(names))
	for _, name := range names {
		sel = append(sel, Field{Name: name})
	}
	return sel
}

// shape turns a resolved value into its response form. Objects become maps
// queued for the next pass; scalars are returned as is and may not carry a
// sub-selection.
func shape(v any, sel Selection, queue *[]*node) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			shaped, err := shape(item, sel, queue)
			if err != nil {
				return nil, err
			}
			out = append(out, shaped)
		}
		return out, nil
	}

	if typeName(v) == "" {
		if len(sel) > 0 {
			return nil, fmt.Errorf("%w: scalar value has no sub-fields", ErrInvalidSelection)
		}
		return v, nil
	}
	out := make(map[string]any)
	*queue = append(*queue, &node{obj: v, sel: sel, out: out})
	return out, nil
}
