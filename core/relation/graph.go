// Package relation stores undirected player relations such as partnerships
// and conflicts.
//
// The JSON form is an object mapping a player name to the list of related
// names, which is the format of the partnership and conflict files kept by
// the roster application. Pairs listed in a single direction are read as
// symmetric.
package relation

import (
	"encoding/json"
	"sort"
	"sync"
)

// Pair is an unordered pair of player names. A is never greater than B.
type Pair struct {
	A string
	B string
}

// NewPair returns the canonical ordering of a and b.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Graph is an undirected relation over player names. Add and Remove always
// update both directions. The zero value is ready to use.
type Graph struct {
	mu  sync.RWMutex
	adj map[string]map[string]struct{}
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// FromMap builds a graph from an adjacency map, adding the reverse of every
// listed edge.
func FromMap(m map[string][]string) *Graph {
	g := New()
	for a, bs := range m {
		for _, b := range bs {
			g.Add(a, b)
		}
	}
	return g
}

// FromPairs builds a graph from a list of pairs.
func FromPairs(pairs ...Pair) *Graph {
	g := New()
	for _, p := range pairs {
		g.Add(p.A, p.B)
	}
	return g
}

// Add relates a and b. Self relations are ignored. It reports whether the
// pair was new.
func (g *Graph) Add(a, b string) bool {
	if a == b || a == "" || b == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.adj == nil {
		g.adj = make(map[string]map[string]struct{})
	}
	if _, ok := g.adj[a][b]; ok {
		return false
	}
	g.link(a, b)
	g.link(b, a)
	return true
}

func (g *Graph) link(a, b string) {
	set, ok := g.adj[a]
	if !ok {
		set = make(map[string]struct{})
		g.adj[a] = set
	}
	set[b] = struct{}{}
}

// Remove deletes the relation between a and b. Names left without any
// relation are dropped. It reports whether the pair existed.
func (g *Graph) Remove(a, b string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.adj[a][b]; !ok {
		return false
	}
	g.unlink(a, b)
	g.unlink(b, a)
	return true
}

func (g *Graph) unlink(a, b string) {
	delete(g.adj[a], b)
	if len(g.adj[a]) == 0 {
		delete(g.adj, a)
	}
}

// RemovePlayer drops every relation involving name.
func (g *Graph) RemovePlayer(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for other := range g.adj[name] {
		g.unlink(other, name)
	}
	delete(g.adj, name)
}

// Has reports whether a and b are related.
func (g *Graph) Has(a, b string) bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adj[a][b]
	return ok
}

// Neighbors returns the sorted names related to name.
func (g *Graph) Neighbors(name string) []string {
	if g == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.adj[name]))
	for n := range g.adj[name] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Pairs returns every relation once, sorted.
func (g *Graph) Pairs() []Pair {
	if g == nil {
		return nil
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Pair
	for a, set := range g.adj {
		for b := range set {
			if a < b {
				out = append(out, Pair{A: a, B: b})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Len returns the number of pairs.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, set := range g.adj {
		n += len(set)
	}
	return n / 2
}

// Map returns the adjacency as sorted name lists.
func (g *Graph) Map() map[string][]string {
	out := make(map[string][]string)
	if g == nil {
		return out
	}
	g.mu.RLock()
	names := make([]string, 0, len(g.adj))
	for a := range g.adj {
		names = append(names, a)
	}
	g.mu.RUnlock()
	for _, a := range names {
		out[a] = g.Neighbors(a)
	}
	return out
}

// Clone returns an independent copy of g.
func (g *Graph) Clone() *Graph {
	return FromMap(g.Map())
}

// MarshalJSON encodes the graph as a name to names object.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Map())
}

// UnmarshalJSON replaces the graph content, symmetrising one-way entries.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	fresh := FromMap(m)
	g.mu.Lock()
	g.adj = fresh.adj
	g.mu.Unlock()
	return nil
}
