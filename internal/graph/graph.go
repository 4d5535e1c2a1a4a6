// Package graph builds the include graph between parsed C++ documents.
package graph

import (
	"path"
	"sort"
	"strings"

	"github.com/phobologic/testscan/internal/cppast"
)

// Dependency is one resolved include edge: Source includes Target through the
// listed include spellings.
type Dependency struct {
	Source   string
	Target   string
	Includes []string
}

// Graph maps every document to the documents its includes resolve to.
// Includes that resolve to no document (system and third-party headers) stay
// on the node as raw spellings.
type Graph struct {
	edges    map[string][]string
	includes map[string][]string
	deps     []Dependency
}

// Build resolves each document's includes against the other documents.
// An include resolves to documents whose path ends with the include path;
// failing that, to every document with the same base name.
func Build(docs []*cppast.Document) *Graph {
	byBase := make(map[string][]string)
	for _, d := range docs {
		if d == nil {
			continue
		}
		base := path.Base(d.FileName)
		byBase[base] = append(byBase[base], d.FileName)
	}

	g := &Graph{
		edges:    make(map[string][]string),
		includes: make(map[string][]string),
	}

	type edgeKey struct{ src, tgt string }
	edgeIncludes := make(map[edgeKey][]string)

	for _, d := range docs {
		if d == nil {
			continue
		}
		g.includes[d.FileName] = d.Includes
		targets := make(map[string]struct{})
		for _, inc := range d.Includes {
			for _, tgt := range resolve(inc, byBase[path.Base(inc)]) {
				if tgt == d.FileName {
					continue // no self-edges
				}
				targets[tgt] = struct{}{}
				key := edgeKey{d.FileName, tgt}
				if !contains(edgeIncludes[key], inc) {
					edgeIncludes[key] = append(edgeIncludes[key], inc)
				}
			}
		}
		g.edges[d.FileName] = sortedKeys(targets)
	}

	for key, incs := range edgeIncludes {
		g.deps = append(g.deps, Dependency{Source: key.src, Target: key.tgt, Includes: incs})
	}
	sort.Slice(g.deps, func(i, j int) bool {
		if g.deps[i].Source != g.deps[j].Source {
			return g.deps[i].Source < g.deps[j].Source
		}
		return g.deps[i].Target < g.deps[j].Target
	})
	return g
}

func resolve(include string, candidates []string) []string {
	include = strings.TrimPrefix(path.Clean(include), "./")
	var exact []string
	for _, c := range candidates {
		if c == include || strings.HasSuffix(c, "/"+include) {
			exact = append(exact, c)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return candidates
}

// Dependencies returns every resolved edge, sorted by source then target.
func (g *Graph) Dependencies() []Dependency {
	return g.deps
}

// Targets returns the documents file includes directly, sorted.
func (g *Graph) Targets(file string) []string {
	return g.edges[file]
}

// Reaches reports whether match holds for the include list of file or of any
// document it transitively includes.
func (g *Graph) Reaches(file string, match func(includes []string) bool) bool {
	visited := map[string]bool{file: true}
	queue := []string{file}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if match(g.includes[cur]) {
			return true
		}
		for _, next := range g.Targets(cur) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
