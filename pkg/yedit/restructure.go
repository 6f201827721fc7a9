// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit

import (
	"github.com/mkmik/argsort"
	"gopkg.in/yaml.v3"
)

// keyOrders are the preferred key orders of well known mapping shapes.
var keyOrders = [][]string{
	// kubernetes resources
	{"apiVersion", "kind", "metadata", "spec", "data", "stringData", "type", "status"},
	{"name", "namespace", "labels", "annotations"},
	// bosh deployment manifests and releases
	{"name", "director_uuid", "releases", "stemcells", "instance_groups", "networks", "resource_pools", "compilation", "update", "variables"},
	{"name", "version", "url", "sha1"},
	// concourse pipelines
	{"resource_types", "resources", "jobs", "groups"},
	{"name", "type", "source"},
}

// Restructure reorders the keys of every mapping under n for readability.
//
// A mapping sharing at least two keys with one of the well known shapes (kubernetes
// resources and metadata, bosh manifests, concourse pipelines) gets that shape's keys first,
// in its order. Otherwise an identifying "name", "key" or "id" key comes first. The
// remaining keys follow, sorted when sortRemaining is set and in their current order otherwise.
// Nodes keep their comments and styles.
func Restructure(n *yaml.Node, sortRemaining bool) {
	restructure(n, sortRemaining, map[*yaml.Node]bool{})
}

func restructure(n *yaml.Node, sortRemaining bool, seen map[*yaml.Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true

	if n.Kind == yaml.MappingNode {
		reorder(n, sortRemaining)
	}
	for _, c := range n.Content {
		restructure(c, sortRemaining, seen)
	}
}

func reorder(m *yaml.Node, sortRemaining bool) {
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}

	rank := ranking(keys)
	perm := argsort.SortSlice(keys, func(i, j int) bool {
		ri, oki := rank[keys[i]]
		rj, okj := rank[keys[j]]
		switch {
		case oki && okj:
			return ri < rj
		case oki != okj:
			return oki
		case sortRemaining && keys[i] != keys[j]:
			return keys[i] < keys[j]
		}
		return i < j
	})

	content := make([]*yaml.Node, 0, len(m.Content))
	for _, i := range perm {
		content = append(content, m.Content[2*i], m.Content[2*i+1])
	}
	m.Content = content
}

// ranking returns the position of each key that must come first.
func ranking(keys []string) map[string]int {
	present := map[string]bool{}
	for _, k := range keys {
		present[k] = true
	}

	var best []string
	bestHits := 1
	for _, order := range keyOrders {
		hits := 0
		for _, k := range order {
			if present[k] {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = order, hits
		}
	}
	if best == nil {
		for _, id := range identifierCandidates {
			if present[id] {
				best = []string{id}
				break
			}
		}
	}

	rank := map[string]int{}
	for i, k := range best {
		rank[k] = i
	}
	return rank
}
