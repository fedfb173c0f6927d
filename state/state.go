// Package state implements typed objects, boolean facts, and keyed
// numeric/structured fluents over the term algebra. Facts and types
// are indexed by the term's hash, so lookup is O(1) amortised and
// set-equality and hashing are independent of insertion order.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/nwu-qrg/adlcore/errs"
	"github.com/nwu-qrg/adlcore/term"
)

// valueEntry is the value column for one predicate/function symbol:
// either a single scalar (arity 0) or a sparse table keyed by the hash
// of the argument tuple.
type valueEntry struct {
	isScalar bool
	scalar   interface{}
	table    map[string]*argValue
}

type argValue struct {
	args  []*term.Term
	value interface{}
}

// State is the mutable world state the interpreter reasons about.
type State struct {
	types  map[string]*term.Term // hash -> type(object) compound
	facts  map[string]*term.Term // hash -> ground proposition
	values map[string]*valueEntry
}

// New returns an empty state.
func New() *State {
	return &State{
		types:  map[string]*term.Term{},
		facts:  map[string]*term.Term{},
		values: map[string]*valueEntry{},
	}
}

// AddType records that object is a declared instance of typ.
func (s *State) AddType(typ, object string) {
	t := term.Compound("type", term.Const(typ), term.Const(object))
	s.types[t.Hash()] = t
}

// Types returns the declared type(object) facts.
func (s *State) Types() []*term.Term {
	return sortedVals(s.types)
}

// HasType reports whether object is declared as typ.
func (s *State) HasType(typ, object string) bool {
	t := term.Compound("type", term.Const(typ), term.Const(object))
	_, ok := s.types[t.Hash()]
	return ok
}

// AddFact adds a ground proposition directly, bypassing SetFluent's
// boolean routing; used for bulk state construction.
func (s *State) AddFact(t *term.Term) {
	s.facts[t.Hash()] = t
}

// Facts returns the ground propositions currently true in s.
func (s *State) Facts() []*term.Term {
	return sortedVals(s.facts)
}

// HasFact reports whether t is a member of facts.
func (s *State) HasFact(t *term.Term) bool {
	_, ok := s.facts[t.Hash()]
	return ok
}

// GetFluent reads a fluent's current value, for both the zero-arity
// Const case and the Compound case.
func (s *State) GetFluent(t *term.Term) interface{} {
	switch t.Kind {
	case term.KindConst:
		if _, ok := s.facts[t.Hash()]; ok {
			return true
		}
		if entry, ok := s.values[t.Name]; ok && entry.isScalar {
			return entry.scalar
		}
		return false
	case term.KindCompound:
		if _, ok := s.facts[t.Hash()]; ok {
			return true
		}
		entry, ok := s.values[t.Name]
		if !ok {
			return false
		}
		key := argsKey(t.Args)
		av, ok := entry.table[key]
		if !ok {
			return false
		}
		return av.value
	default:
		return false
	}
}

// SetFluent sets a fluent's current value: booleans route to facts
// (added when true, removed when false), everything else routes to
// the values table, creating the inner mapping on demand.
func (s *State) SetFluent(t *term.Term, value interface{}) error {
	if t.Kind != term.KindConst && t.Kind != term.KindCompound {
		return errs.New(errs.IllFormedState, "cannot set fluent on a variable term %s", t)
	}
	if b, ok := value.(bool); ok {
		h := t.Hash()
		if b {
			s.facts[h] = t
		} else {
			delete(s.facts, h)
		}
		return nil
	}
	switch t.Kind {
	case term.KindConst:
		s.values[t.Name] = &valueEntry{isScalar: true, scalar: value}
		return nil
	case term.KindCompound:
		entry, ok := s.values[t.Name]
		if !ok || entry.isScalar {
			entry = &valueEntry{table: map[string]*argValue{}}
			s.values[t.Name] = entry
		}
		key := argsKey(t.Args)
		entry.table[key] = &argValue{args: t.Args, value: value}
		return nil
	default:
		return errs.New(errs.IllFormedState, "cannot set fluent on a variable term %s", t)
	}
}

// FluentPair is one (term, value) entry from GetFluents.
type FluentPair struct {
	Term  *term.Term
	Value interface{}
}

// GetFluents enumerates every (term, value) pair the state holds:
// facts (implicit true), in hash order, followed by every values
// entry expanded back to a Compound/Const term.
func (s *State) GetFluents() []FluentPair {
	var out []FluentPair
	for _, f := range s.Facts() {
		out = append(out, FluentPair{Term: f, Value: true})
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := s.values[name]
		if entry.isScalar {
			out = append(out, FluentPair{Term: term.Const(name), Value: entry.scalar})
			continue
		}
		keys := make([]string, 0, len(entry.table))
		for k := range entry.table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			av := entry.table[k]
			out = append(out, FluentPair{Term: term.Compound(name, av.args...), Value: av.value})
		}
	}
	return out
}

// Copy returns a deep copy with respect to the values table (which is
// mutated in place by SetFluent); facts and types are immutable Terms
// so their maps can be copied shallowly.
func (s *State) Copy() *State {
	c := New()
	for k, v := range s.types {
		c.types[k] = v
	}
	for k, v := range s.facts {
		c.facts[k] = v
	}
	for name, entry := range s.values {
		ce := &valueEntry{isScalar: entry.isScalar, scalar: entry.scalar}
		if !entry.isScalar {
			ce.table = make(map[string]*argValue, len(entry.table))
			for k, av := range entry.table {
				ce.table[k] = &argValue{args: av.args, value: av.value}
			}
		}
		c.values[name] = ce
	}
	return c
}

// Equal compares set-equality on types and facts and deep equality on
// values.
func (s *State) Equal(o *State) bool {
	if len(s.types) != len(o.types) || len(s.facts) != len(o.facts) || len(s.values) != len(o.values) {
		return false
	}
	for k := range s.types {
		if _, ok := o.types[k]; !ok {
			return false
		}
	}
	for k := range s.facts {
		if _, ok := o.facts[k]; !ok {
			return false
		}
	}
	for name, entry := range s.values {
		oe, ok := o.values[name]
		if !ok || entry.isScalar != oe.isScalar {
			return false
		}
		if entry.isScalar {
			if entry.scalar != oe.scalar {
				return false
			}
			continue
		}
		if len(entry.table) != len(oe.table) {
			return false
		}
		for k, av := range entry.table {
			oav, ok := oe.table[k]
			if !ok || av.value != oav.value {
				return false
			}
		}
	}
	return true
}

// Hash returns a digest that agrees with Equal and is independent of
// insertion order.
func (s *State) Hash() string {
	h := sha256.New()
	for _, k := range sortedKeys(s.types) {
		h.Write([]byte("T:" + k))
	}
	for _, k := range sortedKeys(s.facts) {
		h.Write([]byte("F:" + k))
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := s.values[name]
		if entry.isScalar {
			fmt.Fprintf(h, "S:%s=%v", name, entry.scalar)
			continue
		}
		for _, k := range sortedKeys(entry.table) {
			fmt.Fprintf(h, "V:%s:%s=%v", name, k, entry.table[k].value)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func argsKey(args []*term.Term) string {
	c := term.Compound("", args...)
	return c.Hash()
}

func sortedVals(m map[string]*term.Term) []*term.Term {
	keys := sortedKeys(m)
	out := make([]*term.Term, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
