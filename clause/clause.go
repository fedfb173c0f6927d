// Package clause implements Horn clauses and SLD resolution over a
// knowledge base of ground facts plus derived-predicate axioms, with a
// pluggable function table for built-in comparison/arithmetic goals.
package clause

import "github.com/nwu-qrg/adlcore/term"

// Clause is a Horn clause: head :- body1, ..., bodyN. An empty Body
// makes it a fact.
type Clause struct {
	Head *term.Term
	Body []*term.Term
}

// Fact returns a clause with an empty body, standing for a ground fact.
func Fact(head *term.Term) Clause {
	return Clause{Head: head}
}

// KnowledgeBase indexes clauses by their head's functor/atom name, so
// a goal only scans clauses that could possibly match it.
type KnowledgeBase struct {
	order  []Clause
	byName map[string][]Clause
}

// NewKnowledgeBase indexes the given clauses, preserving their
// original order within each name bucket: clause selection is in
// knowledge-base order.
func NewKnowledgeBase(clauses []Clause) *KnowledgeBase {
	kb := &KnowledgeBase{byName: map[string][]Clause{}}
	for _, c := range clauses {
		kb.order = append(kb.order, c)
		kb.byName[c.Head.Name] = append(kb.byName[c.Head.Name], c)
	}
	return kb
}

// Candidates returns the clauses whose head shares name's functor, in
// knowledge-base order.
func (kb *KnowledgeBase) Candidates(name string) []Clause {
	return kb.byName[name]
}
