package domain

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	items []string
	pos   map[string]int
}

func newOrderedSet(items []string) orderedSet {
	s := orderedSet{items: make([]string, 0, len(items)), pos: make(map[string]int, len(items))}
	for _, it := range items {
		s.add(it)
	}
	return s
}

func (s *orderedSet) has(v string) bool {
	_, ok := s.pos[v]
	return ok
}

func (s *orderedSet) add(v string) bool {
	if s.has(v) {
		return false
	}
	s.pos[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet) remove(v string) bool {
	i, ok := s.pos[v]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.pos, v)
	for j := i; j < len(s.items); j++ {
		s.pos[s.items[j]] = j
	}
	return true
}

// replace swaps old for next in the same slot.
func (s *orderedSet) replace(old, next string) bool {
	i, ok := s.pos[old]
	if !ok || s.has(next) {
		return false
	}
	s.items[i] = next
	delete(s.pos, old)
	s.pos[next] = i
	return true
}

func (s *orderedSet) values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
