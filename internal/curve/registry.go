package curve

import (
	"fmt"
	"sort"
)

type Registry struct {
	methods map[string]func(Spec) (Model, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		methods: make(map[string]func(Spec) (Model, error)),
	}

	r.methods["bsplines"] = func(s Spec) (Model, error) { return NewBSpline(s) }
	r.methods["cubic"] = func(s Spec) (Model, error) { return NewCubic(s) }
	r.methods["natural"] = func(s Spec) (Model, error) { return NewNaturalCubic(s) }
	r.methods["akima"] = func(s Spec) (Model, error) { return NewAkima(s) }
	r.methods["linear"] = func(s Spec) (Model, error) { return NewLinear(s) }

	return r
}

// Get builds the model for method. An empty method falls back to spec.Method.
func (r *Registry) Get(method string, spec Spec) (Model, error) {
	if method == "" {
		method = spec.Method
	}
	fn, ok := r.methods[method]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s (available: %v)", method, r.List())
	}
	return fn(spec)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
