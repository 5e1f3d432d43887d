// Package node defines the pure transform abstraction the orchestrator wires
// into pipelines, and the erasure adapter that lets PipelineNode hold nodes
// of arbitrary (Tin, Tout, P) behind a single dispatch method.
package node

import (
	"context"
	"fmt"

	"github.com/pipeforge/pipeforge/internal/ports"
)

// Node is an abstract transform Tin -> Tout, optionally parameterized by P.
// Transform should be pure; side effects beyond logging are discouraged but
// not prevented. Nodes are constructed without arguments so a builder or
// registry can create them generically — dependencies (logger, parameters)
// are assigned afterward via property injection, see Base[P].
type Node[Tin, Tout, P any] interface {
	Transform(ctx context.Context, items []Tin) ([]Tout, error)
}

// Base is an embeddable struct concrete node types use to receive
// property-injected dependencies after default construction: a logger and a
// defaulted parameter value. Go has no nullable-field requirement here, so
// the zero value of P is simply "not yet configured".
type Base[P any] struct {
	Logger ports.Logger
	Params P
}

// SetLogger assigns the node's logger; nil is a valid "no logging" value.
// Neither PipelineBuilder nor the config loader calls it, so a node wired
// through them keeps a nil Logger unless the caller sets one.
func (b *Base[P]) SetLogger(l ports.Logger) { b.Logger = l }

// SetParams assigns the node's parameter value.
func (b *Base[P]) SetParams(p P) { b.Params = p }

// Parameters returns the node's current parameter value.
func (b *Base[P]) Parameters() P { return b.Params }

// Erased is the type-erased handle a PipelineNode stores: a single method
// closing over the concrete (Tin, Tout, P) triple fixed when Erase was
// called. This is strategy (a) from the orchestrator's design notes —
// holding nodes behind a small adapter interface rather than a tagged
// variant + dispatcher.
type Erased interface {
	TransformAny(ctx context.Context, items []any) ([]any, error)
}

type adapter[Tin, Tout, P any] struct {
	n Node[Tin, Tout, P]
}

// TransformAny unboxes items to Tin, delegates to the concrete node, and
// re-boxes the result to []any.
func (a adapter[Tin, Tout, P]) TransformAny(ctx context.Context, items []any) ([]any, error) {
	typed := make([]Tin, len(items))
	for i, it := range items {
		v, ok := it.(Tin)
		if !ok {
			return nil, &TypeAssertionError{Index: i, Want: typeName[Tin](), Got: it}
		}
		typed[i] = v
	}
	out, err := a.n.Transform(ctx, typed)
	if err != nil {
		return nil, err
	}
	erased := make([]any, len(out))
	for i, o := range out {
		erased[i] = o
	}
	return erased, nil
}

// Erase wraps a concrete node as an Erased handle, fixing its type
// parameters at wire time. Called by PipelineBuilder.AddNode.
func Erase[Tin, Tout, P any](n Node[Tin, Tout, P]) Erased {
	return adapter[Tin, Tout, P]{n: n}
}

// paramConfigurer is the concrete-node-side counterpart of
// ParamConfigurable: a node implements this directly (decoding its own P
// out of the raw map) and adapter forwards to it when present.
type paramConfigurer interface {
	ConfigureParams(params map[string]interface{}) error
}

// ConfigureParams forwards to the wrapped node if it implements
// paramConfigurer, and is a no-op otherwise — most nodes have no
// config-time parameters and never need to implement it.
func (a adapter[Tin, Tout, P]) ConfigureParams(params map[string]interface{}) error {
	if c, ok := a.n.(paramConfigurer); ok {
		return c.ConfigureParams(params)
	}
	return nil
}

// ParamConfigurable lets a node accept untyped parameters decoded from
// config (YAML `params:`), for config-driven pipelines where a node's
// concrete P type is fixed at registration time but the values arrive as a
// map[string]interface{} rather than a compile-time literal. Registry.New
// alone only default-constructs a node (§4.4's constructor rule); a node
// that wants config-supplied parameters implements this on top of its
// Erased handle so a config loader can apply them after construction,
// without the registry itself needing to know any concrete P.
type ParamConfigurable interface {
	Erased
	ConfigureParams(params map[string]interface{}) error
}

// TypeAssertionError reports an item that did not match the expected Tin at
// the erasure boundary — a usage error (mismatched wiring), not a data
// error.
type TypeAssertionError struct {
	Index int
	Want  string
	Got   any
}

func (e *TypeAssertionError) Error() string {
	return fmt.Sprintf("node: item %d (%T) is not assignable to %s", e.Index, e.Got, e.Want)
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
