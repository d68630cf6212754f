// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package contract

import (
	"container/heap"
	"sort"
)

type nameHeap []string

func (h nameHeap) Len() int           { return len(h) }
func (h nameHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h nameHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nameHeap) Push(x any)        { *h = append(*h, x.(string)) }
func (h *nameHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Order returns nodes sorted so that every node comes after all of its
// dependencies. deps maps a node to the nodes it depends on; dependencies
// that are not in nodes are ignored.
//
// Ties are broken lexically, so the result is identical across runs. When
// the graph has a cycle, Order returns a CYCLIC_DEPENDENCY error listing the
// packages on one cycle.
func Order(nodes []string, deps map[string][]string) ([]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	pending := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		seen := make(map[string]bool)
		for _, d := range deps[n] {
			if !known[d] || d == n || seen[d] {
				continue
			}
			seen[d] = true
			pending[n]++
			dependents[d] = append(dependents[d], n)
		}
	}

	ready := &nameHeap{}
	for _, n := range nodes {
		if pending[n] == 0 {
			heap.Push(ready, n)
		}
	}

	out := make([]string, 0, len(nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(string)
		out = append(out, n)
		for _, m := range dependents[n] {
			pending[m]--
			if pending[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(out) == len(nodes) {
		return out, nil
	}

	return nil, ErrCyclicDependency(findCycle(nodes, deps, pending))
}

// findCycle walks dependency edges between nodes left unordered until a node
// repeats. Every such node still waits on another unordered node, so the walk
// always closes a cycle. The cycle is rotated to start at its smallest name.
func findCycle(nodes []string, deps map[string][]string, pending map[string]int) []string {
	var remaining []string
	for _, n := range nodes {
		if pending[n] > 0 {
			remaining = append(remaining, n)
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	sort.Strings(remaining)

	isRemaining := make(map[string]bool, len(remaining))
	for _, n := range remaining {
		isRemaining[n] = true
	}

	next := func(n string) string {
		var candidates []string
		for _, d := range deps[n] {
			if d != n && isRemaining[d] {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			return ""
		}
		sort.Strings(candidates)
		return candidates[0]
	}

	index := make(map[string]int)
	var path []string
	for cur := remaining[0]; cur != ""; cur = next(cur) {
		if i, ok := index[cur]; ok {
			return rotateToMin(path[i:])
		}
		index[cur] = len(path)
		path = append(path, cur)
	}
	return remaining
}

func rotateToMin(cycle []string) []string {
	minIdx := 0
	for i, n := range cycle {
		if n < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(cycle))
	out = append(out, cycle[minIdx:]...)
	out = append(out, cycle[:minIdx]...)
	return out
}
