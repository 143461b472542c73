package moderation

import (
	"fmt"
	"sort"
	"strings"
)

// Selections accumulates the options chosen while each state was active.
// Insertion is idempotent: re-selecting a symbol in the same state is a
// no-op. The order states were visited is preserved for summary rendering;
// order within a state is not meaningful and is normalized by symbol.
type Selections[S comparable] struct {
	order  []S
	chosen map[S]map[string]Option
}

// NewSelections returns an empty selection set.
func NewSelections[S comparable]() *Selections[S] {
	return &Selections[S]{chosen: make(map[S]map[string]Option)}
}

// Visit records that a prompting state was reached, establishing its
// position in the summary even if nothing gets selected there.
func (s *Selections[S]) Visit(state S) {
	for _, v := range s.order {
		if v == state {
			return
		}
	}
	s.order = append(s.order, state)
}

// Select records an option under the given state.
func (s *Selections[S]) Select(state S, opt Option) {
	s.Visit(state)
	set, ok := s.chosen[state]
	if !ok {
		set = make(map[string]Option)
		s.chosen[state] = set
	}
	set[opt.Symbol] = opt
}

// Chosen returns the options selected in a state, ordered by symbol.
func (s *Selections[S]) Chosen(state S) []Option {
	set := s.chosen[state]
	opts := make([]Option, 0, len(set))
	for _, o := range set {
		opts = append(opts, o)
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Symbol < opts[j].Symbol })
	return opts
}

// Count returns how many distinct options are selected in a state.
func (s *Selections[S]) Count(state S) int {
	return len(s.chosen[state])
}

// Has reports whether a symbol is selected in a state.
func (s *Selections[S]) Has(state S, symbol string) bool {
	_, ok := s.chosen[state][symbol]
	return ok
}

// Any reports whether some selected option in a state satisfies pred.
func (s *Selections[S]) Any(state S, pred func(Option) bool) bool {
	for _, o := range s.chosen[state] {
		if pred(o) {
			return true
		}
	}
	return false
}

// Visited returns the prompting states in visitation order.
func (s *Selections[S]) Visited() []S {
	return s.order
}

// Render produces one summary line per visited state:
// "<state prompt> -> <joined option labels>".
func (s *Selections[S]) Render(prompts map[S]string) []string {
	lines := make([]string, 0, len(s.order))
	for _, state := range s.order {
		labels := make([]string, 0, len(s.chosen[state]))
		for _, o := range s.Chosen(state) {
			labels = append(labels, o.Label)
		}
		label := strings.Join(labels, ", ")
		if label == "" {
			label = "(no selection)"
		}
		lines = append(lines, fmt.Sprintf("%s -> %s", prompts[state], label))
	}
	return lines
}
