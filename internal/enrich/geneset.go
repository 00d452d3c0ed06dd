package enrich

import (
	"fmt"
	"sort"
)

// GeneSet is a named collection of gene identifiers grouped by shared
// function or pathway membership. Member duplicates collapse on construction.
type GeneSet struct {
	ID    string
	Name  string // optional human-readable name or source tag
	Genes map[string]struct{}
}

// NewGeneSet builds a gene set from a member list, collapsing duplicates.
func NewGeneSet(id, name string, genes []string) GeneSet {
	members := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		if g != "" {
			members[g] = struct{}{}
		}
	}
	return GeneSet{ID: id, Name: name, Genes: members}
}

// Size returns the member count.
func (s GeneSet) Size() int { return len(s.Genes) }

// Contains reports whether the gene is a member.
func (s GeneSet) Contains(gene string) bool {
	_, ok := s.Genes[gene]
	return ok
}

// Members returns the member gene identifiers in sorted order.
func (s GeneSet) Members() []string {
	out := make([]string, 0, len(s.Genes))
	for g := range s.Genes {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Catalog is an immutable collection of gene sets keyed by identifier.
type Catalog struct {
	sets  []GeneSet
	index map[string]int
}

// NewCatalog builds a catalog. It fails with a ValidationError if any entry
// has an empty member set or a duplicate identifier.
func NewCatalog(sets []GeneSet) (*Catalog, error) {
	index := make(map[string]int, len(sets))
	copied := make([]GeneSet, len(sets))
	for i, s := range sets {
		if s.ID == "" {
			return nil, &ValidationError{Field: "gene set", Msg: fmt.Sprintf("empty identifier at entry %d", i)}
		}
		if _, seen := index[s.ID]; seen {
			return nil, &ValidationError{Field: "gene set", Msg: fmt.Sprintf("duplicate identifier %q", s.ID)}
		}
		if len(s.Genes) == 0 {
			return nil, &ValidationError{Field: "gene set", Msg: fmt.Sprintf("%q has no members", s.ID)}
		}
		index[s.ID] = i
		copied[i] = s
	}
	return &Catalog{sets: copied, index: index}, nil
}

// Len returns the number of gene sets.
func (c *Catalog) Len() int { return len(c.sets) }

// Get returns the gene set with the given identifier.
func (c *Catalog) Get(id string) (GeneSet, bool) {
	i, ok := c.index[id]
	if !ok {
		return GeneSet{}, false
	}
	return c.sets[i], true
}

// Sets returns the gene sets in load order.
func (c *Catalog) Sets() []GeneSet {
	out := make([]GeneSet, len(c.sets))
	copy(out, c.sets)
	return out
}

// FilterBySize returns a new catalog keeping only sets whose member count
// lies in [min, max]. Size filtering must happen before any p-values are
// computed so the multiple-testing denominator counts only tested sets.
func (c *Catalog) FilterBySize(min, max int) *Catalog {
	kept := make([]GeneSet, 0, len(c.sets))
	index := make(map[string]int)
	for _, s := range c.sets {
		if s.Size() < min || s.Size() > max {
			continue
		}
		index[s.ID] = len(kept)
		kept = append(kept, s)
	}
	return &Catalog{sets: kept, index: index}
}
