package board

// A single line segment of a stroke. Immutable once created.
type StrokePoint struct {
	PrevX    float64 `json:"prevX"`
	PrevY    float64 `json:"prevY"`
	CurrX    float64 `json:"currX"`
	CurrY    float64 `json:"currY"`
	Color    string  `json:"color"`
	StrokeID string  `json:"strokeId"`
	AuthorID string  `json:"authorId"`
}

// The ordered drawing log of one room. Insertion order is the arrival
// order of the batches that produced each run of points.
type History []StrokePoint

// Returns a copy so callers can hold the result across mutations
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Finds the stroke ID of the most recent point drawn by the given author,
// scanning from the tail
func (h History) LastStrokeByAuthor(authorID string) (string, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].AuthorID == authorID {
			return h[i].StrokeID, true
		}
	}
	return "", false
}

// Splits the history into the points belonging to the given stroke and
// everything else, both in their original relative order
func (h History) ExtractStroke(strokeID string) (removed, remaining History) {
	remaining = make(History, 0, len(h))
	for _, p := range h {
		if p.StrokeID == strokeID {
			removed = append(removed, p)
		} else {
			remaining = append(remaining, p)
		}
	}
	return removed, remaining
}

// Returns the history without any points drawn by the given author
func (h History) RemoveByAuthor(authorID string) History {
	remaining := make(History, 0, len(h))
	for _, p := range h {
		if p.AuthorID != authorID {
			remaining = append(remaining, p)
		}
	}
	return remaining
}

// Reports whether any point in the history was drawn by the given author
func (h History) HasAuthor(authorID string) bool {
	for _, p := range h {
		if p.AuthorID == authorID {
			return true
		}
	}
	return false
}
