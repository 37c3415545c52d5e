package domain

// Tokens is the ordered list of a user's active bearer tokens.
type Tokens struct{ set orderedSet }

func NewTokens(tokens []string) *Tokens { return &Tokens{set: newOrderedSet(tokens)} }

func (t *Tokens) Contains(token string) bool { return t.set.has(token) }

func (t *Tokens) Push(token string) bool { return t.set.add(token) }

// Rotate puts next where old was.
func (t *Tokens) Rotate(old, next string) bool { return t.set.replace(old, next) }

func (t *Tokens) Revoke(token string) bool { return t.set.remove(token) }

func (t *Tokens) Values() []string { return t.set.values() }
