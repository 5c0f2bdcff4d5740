package graph

// Pattern selects triples. A nil position is a wildcard.
type Pattern struct {
	Subject   *Term
	Predicate *Term
	Object    *Term
}

// Bind returns a pointer to t for use in a Pattern.
func Bind(t Term) *Term {
	return &t
}

// Matches reports whether tr satisfies p.
func (p Pattern) Matches(tr Triple) bool {
	if p.Subject != nil && *p.Subject != tr.Subject {
		return false
	}
	if p.Predicate != nil && *p.Predicate != tr.Predicate {
		return false
	}
	if p.Object != nil && *p.Object != tr.Object {
		return false
	}
	return true
}

// Store is the pattern-matching facade over a loaded graph.
// Implementations return matches in a stable, implementation-defined order and
// must be safe for concurrent readers.
type Store interface {
	Match(p Pattern) []Triple
	Len() int
}

// MemStore is an immutable in-memory store indexed by subject, predicate and
// object. Matches come back in insertion (document) order.
type MemStore struct {
	triples     []Triple
	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
}

// NewMemStore indexes triples. Duplicate statements are kept once, at their
// first position.
func NewMemStore(triples []Triple) *MemStore {
	s := &MemStore{
		triples:     make([]Triple, 0, len(triples)),
		bySubject:   make(map[Term][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
	}

	seen := make(map[Triple]struct{}, len(triples))
	for _, tr := range triples {
		if _, dup := seen[tr]; dup {
			continue
		}
		seen[tr] = struct{}{}

		i := len(s.triples)
		s.triples = append(s.triples, tr)
		s.bySubject[tr.Subject] = append(s.bySubject[tr.Subject], i)
		s.byPredicate[tr.Predicate] = append(s.byPredicate[tr.Predicate], i)
		s.byObject[tr.Object] = append(s.byObject[tr.Object], i)
	}
	return s
}

// Len returns the number of distinct triples.
func (s *MemStore) Len() int {
	return len(s.triples)
}

// Match returns every triple satisfying p. The candidate set comes from the
// most selective bound position.
func (s *MemStore) Match(p Pattern) []Triple {
	candidates, all := s.candidates(p)
	if all {
		out := make([]Triple, 0, len(s.triples))
		for _, tr := range s.triples {
			if p.Matches(tr) {
				out = append(out, tr)
			}
		}
		return out
	}

	out := make([]Triple, 0, len(candidates))
	for _, i := range candidates {
		if tr := s.triples[i]; p.Matches(tr) {
			out = append(out, tr)
		}
	}
	return out
}

func (s *MemStore) candidates(p Pattern) (idx []int, all bool) {
	var best []int
	found := false
	consider := func(index map[Term][]int, t *Term) {
		if t == nil {
			return
		}
		list := index[*t]
		if !found || len(list) < len(best) {
			best = list
			found = true
		}
	}
	consider(s.bySubject, p.Subject)
	consider(s.byPredicate, p.Predicate)
	consider(s.byObject, p.Object)
	return best, !found
}

// Objects returns the objects of (subject, predicate, ?) in store order.
func Objects(s Store, subject, predicate Term) []Term {
	matches := s.Match(Pattern{Subject: &subject, Predicate: &predicate})
	out := make([]Term, 0, len(matches))
	for _, tr := range matches {
		out = append(out, tr.Object)
	}
	return out
}

// Subjects returns the subjects of (?, predicate, object) in store order.
func Subjects(s Store, predicate, object Term) []Term {
	matches := s.Match(Pattern{Predicate: &predicate, Object: &object})
	out := make([]Term, 0, len(matches))
	for _, tr := range matches {
		out = append(out, tr.Subject)
	}
	return out
}

// HasSubject reports whether any triple has subject as its subject.
func HasSubject(s Store, subject Term) bool {
	return len(s.Match(Pattern{Subject: &subject})) > 0
}
