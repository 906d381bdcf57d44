package domain

// Completion is the execution state of one flow: node id to done flag.
type Completion map[string]bool

// IsDone is safe to call on a nil map.
func (c Completion) IsDone(nodeID string) bool {
	return c[nodeID]
}

// Set marks nodeID done or clears it. Cleared entries are removed so the
// map only carries completed nodes.
func (c Completion) Set(nodeID string, done bool) {
	if done {
		c[nodeID] = true
		return
	}
	delete(c, nodeID)
}

func (c Completion) Clone() Completion {
	out := make(Completion, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Count returns the number of completed entries.
func (c Completion) Count() int {
	n := 0
	for _, v := range c {
		if v {
			n++
		}
	}
	return n
}
