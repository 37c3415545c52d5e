package domain

// Likes is a user's set of liked product ids.
type Likes struct{ set orderedSet }

func NewLikes(ids []string) *Likes { return &Likes{set: newOrderedSet(ids)} }

func (l *Likes) Has(productID string) bool { return l.set.has(productID) }

// Set makes membership match liked and reports whether anything changed.
func (l *Likes) Set(productID string, liked bool) bool {
	if liked {
		return l.set.add(productID)
	}
	return l.set.remove(productID)
}

func (l *Likes) IDs() []string { return l.set.values() }

func (l *Likes) Len() int { return len(l.set.items) }
