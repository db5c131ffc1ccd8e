package matcher

import (
	"bytes"
	"sort"
)

// acNode is a node in the Aho-Corasick automaton.
type acNode struct {
	children [256]*acNode
	fail     *acNode
	output   []int // lengths of patterns ending at this node
}

// AhoCorasickMatcher matches multiple fixed patterns in a single pass.
type AhoCorasickMatcher struct {
	root       *acNode
	ignoreCase bool
	tabWidth   int
}

// NewAhoCorasickMatcher builds an automaton over the given fixed patterns.
func NewAhoCorasickMatcher(patterns []string, ignoreCase bool, tabWidth int) *AhoCorasickMatcher {
	m := &AhoCorasickMatcher{
		root:       &acNode{},
		ignoreCase: ignoreCase,
		tabWidth:   tabWidth,
	}

	for _, p := range patterns {
		pat := []byte(p)
		if ignoreCase {
			pat = bytes.ToLower(pat)
		}
		m.addPattern(pat)
	}
	m.buildFailureLinks()
	return m
}

func (m *AhoCorasickMatcher) addPattern(pattern []byte) {
	node := m.root
	for _, b := range pattern {
		if node.children[b] == nil {
			node.children[b] = &acNode{}
		}
		node = node.children[b]
	}
	node.output = append(node.output, len(pattern))
}

func (m *AhoCorasickMatcher) buildFailureLinks() {
	queue := make([]*acNode, 0, 256)
	for i := range 256 {
		if child := m.root.children[i]; child != nil {
			child.fail = m.root
			queue = append(queue, child)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := range 256 {
			child := current.children[i]
			if child == nil {
				continue
			}
			queue = append(queue, child)

			fail := current.fail
			for fail != nil && fail.children[i] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
			} else {
				child.fail = fail.children[i]
				child.output = append(child.output, fail.children[i].output...)
			}
		}
	}
}

func (m *AhoCorasickMatcher) Match(data []byte) bool {
	node := m.root
	for i := 0; i < len(data); i++ {
		b := data[i]
		if m.ignoreCase {
			b = toLower(b)
		}
		for node != m.root && node.children[b] == nil {
			node = node.fail
		}
		if next := node.children[b]; next != nil {
			node = next
		}
		if len(node.output) > 0 {
			return true
		}
	}
	return false
}

func (m *AhoCorasickMatcher) FindAll(data []byte) []Match {
	return matchesFromLocs(data, m.locs(data), m.tabWidth)
}

func (m *AhoCorasickMatcher) FindLine(line []byte) []Span {
	locs := m.locs(line)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// locs runs the automaton over data and returns match ranges sorted by start,
// longest first at equal starts, pruned to a non-overlapping ordered set.
func (m *AhoCorasickMatcher) locs(data []byte) [][2]int {
	var raw [][2]int
	node := m.root

	for i := 0; i < len(data); i++ {
		b := data[i]
		if m.ignoreCase {
			b = toLower(b)
		}
		for node != m.root && node.children[b] == nil {
			node = node.fail
		}
		if next := node.children[b]; next != nil {
			node = next
		}
		for _, plen := range node.output {
			raw = append(raw, [2]int{i + 1 - plen, i + 1})
		}
	}

	if len(raw) == 0 {
		return nil
	}

	sort.Slice(raw, func(i, j int) bool {
		if raw[i][0] != raw[j][0] {
			return raw[i][0] < raw[j][0]
		}
		return raw[i][1] > raw[j][1]
	})

	locs := raw[:0]
	end := -1
	for _, loc := range raw {
		if loc[0] >= end {
			locs = append(locs, loc)
			end = loc[1]
		}
	}
	return locs
}
