package animate

// Condition is a one-shot trigger. Do runs the first time If returns true,
// after which the condition is dropped.
type Condition[T any] struct {
	If func(step int, process float64, target T) bool
	Do func(step int, process float64, target T)
}

// Registry holds pending conditions in registration order.
type Registry[T any] struct {
	entries []*entry[T]
}

type entry[T any] struct {
	Condition[T]
	fired bool
}

// Register replaces every pending condition with cs.
func (r *Registry[T]) Register(cs []Condition[T]) {
	r.entries = make([]*entry[T], len(cs))
	for i, c := range cs {
		r.entries[i] = &entry[T]{Condition: c}
	}
}

// Len returns the number of pending conditions.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Evaluate checks every pending condition, most recently registered first,
// and fires and drops those whose predicate holds. A predicate with side
// effects is seen by the predicates checked after it in the same pass.
//
// A condition is consumed before its action runs, so an action that
// evaluates the registry again cannot fire it a second time.
func (r *Registry[T]) Evaluate(step int, process float64, target T) int {
	pending := r.entries
	n := 0
	for i := len(pending) - 1; i >= 0; i-- {
		e := pending[i]
		if e.fired || e.If == nil || !e.If(step, process, target) {
			continue
		}
		e.fired = true
		n++
		if e.Do != nil {
			e.Do(step, process, target)
		}
	}
	if n > 0 {
		r.drop()
	}
	return n
}

// drop removes fired entries from the current list, which an action may
// have replaced or already pruned.
func (r *Registry[T]) drop() {
	kept := r.entries[:0:0]
	for _, e := range r.entries {
		if !e.fired {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}
