// Package domain holds the lifted domain model: type hierarchy,
// predicate/function signatures, action schemas, derived-predicate
// axioms, and declared constants.
//
// An ActionSchema bundles one lifted action's name, typed parameters,
// a single precondition term, and a single effect term; conjunction
// inside those terms carries whatever structure a multi-clause
// precondition or add/delete list would otherwise need.
package domain

import (
	"sort"

	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/state"
	"github.com/nwu-qrg/adlcore/term"
)

// Param is one typed parameter of a lifted action schema.
type Param struct {
	Var  string
	Type string
}

// ActionSchema is a lifted action: name, ordered typed parameters, a
// precondition term, and an effect term.
type ActionSchema struct {
	Name    string
	Params  []Param
	Precond *term.Term
	Effect  *term.Term
}

// ArgTypes returns the schema's parameter types in declaration order.
func (a *ActionSchema) ArgTypes() []string {
	out := make([]string, len(a.Params))
	for i, p := range a.Params {
		out[i] = p.Type
	}
	return out
}

// ArgVars returns the schema's parameter variable names in declaration order.
func (a *ActionSchema) ArgVars() []string {
	out := make([]string, len(a.Params))
	for i, p := range a.Params {
		out[i] = p.Var
	}
	return out
}

// PredSig is a predicate's name and argument types.
type PredSig struct {
	Name     string
	ArgTypes []string
}

// FuncDef is a function (fluent) signature plus an optional body: a
// term defining its value in terms of the parameter variables, for
// functions computed rather than stored. A nil Body means the
// function's value lives directly in the state's fluent-value table
// (State.SetFluent / State.GetFluent).
type FuncDef struct {
	Name       string
	ArgTypes   []string
	ResultType string
	Params     []string
	Body       *term.Term
}

// Domain is the lifted domain model.
type Domain struct {
	Name       string
	typeParent map[string][]string // subtype -> immediate supertypes
	predicates map[string]PredSig
	functions  map[string]FuncDef
	actions    []*ActionSchema
	axioms     []clause.Clause
	constants  map[string]string // name -> type
}

// New returns an empty domain with the given name.
func New(name string) *Domain {
	return &Domain{
		Name:       name,
		typeParent: map[string][]string{},
		predicates: map[string]PredSig{},
		functions:  map[string]FuncDef{},
		constants:  map[string]string{},
	}
}

// AddType declares subtype as an immediate subtype of each of supers.
// Multiple supertypes are permitted.
func (d *Domain) AddType(subtype string, supers ...string) {
	d.typeParent[subtype] = append(d.typeParent[subtype], supers...)
	for _, s := range supers {
		if _, ok := d.typeParent[s]; !ok {
			d.typeParent[s] = nil
		}
	}
}

// AddPredicate registers a predicate signature.
func (d *Domain) AddPredicate(sig PredSig) { d.predicates[sig.Name] = sig }

// AddFunction registers a function (fluent) signature/body.
func (d *Domain) AddFunction(def FuncDef) { d.functions[def.Name] = def }

// AddAction registers a lifted action schema.
func (d *Domain) AddAction(a *ActionSchema) { d.actions = append(d.actions, a) }

// AddAxiom registers a derived-predicate clause.
func (d *Domain) AddAxiom(c clause.Clause) { d.axioms = append(d.axioms, c) }

// AddConstant declares a domain constant and its type.
func (d *Domain) AddConstant(name, typ string) { d.constants[name] = typ }

// GetActions returns the domain's action schemas in declaration order.
func (d *Domain) GetActions() []*ActionSchema { return d.actions }

// GetAction looks up a schema by name.
func (d *Domain) GetAction(name string) *ActionSchema {
	for _, a := range d.actions {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// GetClauses returns the domain's derived-predicate axioms.
func (d *Domain) GetClauses() []clause.Clause { return d.axioms }

// GetConstants returns the domain's declared constants and their types.
func (d *Domain) GetConstants() map[string]string { return d.constants }

// IsFunc reports whether name is a declared function/fluent symbol.
func (d *Domain) IsFunc(name string) bool {
	_, ok := d.functions[name]
	return ok
}

// GetFunction looks up a function definition by name.
func (d *Domain) GetFunction(name string) (FuncDef, bool) {
	f, ok := d.functions[name]
	return f, ok
}

// Functions returns every declared function/fluent definition, keyed by name.
func (d *Domain) Functions() map[string]FuncDef {
	return d.functions
}

// Predicates returns every declared predicate signature, keyed by name.
func (d *Domain) Predicates() map[string]PredSig {
	return d.predicates
}

// IsPredicate reports whether name is a declared predicate symbol.
func (d *Domain) IsPredicate(name string) bool {
	_, ok := d.predicates[name]
	return ok
}

// GetPredicate looks up a predicate signature by name.
func (d *Domain) GetPredicate(name string) (PredSig, bool) {
	p, ok := d.predicates[name]
	return p, ok
}

// IsDerived reports whether name is the head functor of at least one axiom.
func (d *Domain) IsDerived(name string) bool {
	for _, a := range d.axioms {
		if a.Head.Name == name {
			return true
		}
	}
	return false
}

// IsType reports whether name is declared anywhere in the type hierarchy.
func (d *Domain) IsType(name string) bool {
	if _, ok := d.typeParent[name]; ok {
		return true
	}
	for _, supers := range d.typeParent {
		for _, s := range supers {
			if s == name {
				return true
			}
		}
	}
	return false
}

// HasSubtypes reports whether typ has at least one declared subtype.
func (d *Domain) HasSubtypes(typ string) bool {
	for sub, supers := range d.typeParent {
		if sub == typ {
			continue
		}
		for _, s := range supers {
			if s == typ {
				return true
			}
		}
	}
	return false
}

// Subtypes returns typ and every type that is a (transitive) subtype of it.
func (d *Domain) Subtypes(typ string) []string {
	seen := map[string]bool{typ: true}
	queue := []string{typ}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for sub, supers := range d.typeParent {
			for _, s := range supers {
				if s == cur && !seen[sub] {
					seen[sub] = true
					queue = append(queue, sub)
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// GetObjects returns the objects declared in st whose type is typ or
// any of typ's subtypes, in the order of st.Types(): sorted by the hash
// key of each type fact, which orders by type name and then object
// name. The order in which objects were declared is not kept. An empty
// typ returns every declared object.
func (d *Domain) GetObjects(st *state.State, typ string) []string {
	var wantTypes map[string]bool
	if typ != "" {
		wantTypes = map[string]bool{}
		for _, t := range d.Subtypes(typ) {
			wantTypes[t] = true
		}
	}
	var out []string
	seen := map[string]bool{}
	for _, t := range st.Types() {
		if len(t.Args) != 2 {
			continue
		}
		objType, obj := t.Args[0].Name, t.Args[1].Name
		if wantTypes != nil && !wantTypes[objType] {
			continue
		}
		if !seen[obj] {
			seen[obj] = true
			out = append(out, obj)
		}
	}
	return out
}

// GetObjTypes returns, for each declared object in st, the set of
// types it has been declared as.
func (d *Domain) GetObjTypes(st *state.State) map[string][]string {
	out := map[string][]string{}
	for _, t := range st.Types() {
		if len(t.Args) != 2 {
			continue
		}
		objType, obj := t.Args[0].Name, t.Args[1].Name
		out[obj] = append(out[obj], objType)
	}
	return out
}
