// Package ordering computes list positions for a watchlist. It is pure: it
// takes the owner's order keys and returns the assignments to persist.
//
// The canonical sequence puts ordered entries (Order >= 1) first by Order,
// then unordered entries. Ties and the unordered tail are newest first.
// After every operation the ordered entries are numbered 1..k with no gaps.
package ordering

import (
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// MoveRequest describes a drag-and-drop in a possibly filtered view.
type MoveRequest struct {
	EntryID uuid.UUID
	// FromIndex is the index the client saw. The entry's actual index in
	// Visible is used when they disagree.
	FromIndex int
	ToIndex   int
	// Visible is the sequence the client displayed. Empty means the full list.
	Visible []uuid.UUID
	Sort    domain.ListSort
}

// MoveResult holds the changed assignments. Applied is false when the view's
// sort does not allow manual ordering.
type MoveResult struct {
	Applied     bool
	Assignments []domain.OrderAssignment
}

// Sort returns the canonical full sequence. The input is not modified.
func Sort(items []domain.OrderKey) []domain.OrderKey {
	out := slices.Clone(items)
	slices.SortStableFunc(out, compare)
	return out
}

func compare(a, b domain.OrderKey) int {
	aOrdered, bOrdered := a.Order > 0, b.Order > 0
	switch {
	case aOrdered && !bOrdered:
		return -1
	case !aOrdered && bOrdered:
		return 1
	case aOrdered && a.Order != b.Order:
		return a.Order - b.Order
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// Move applies a visible reorder to the full sequence.
func Move(items []domain.OrderKey, req MoveRequest) (MoveResult, error) {
	if req.Sort != domain.ListSortList {
		return MoveResult{Applied: false}, nil
	}

	full := Sort(items)
	if indexOf(full, req.EntryID) < 0 {
		return MoveResult{}, domain.ErrNotFound
	}

	visible := visibleSequence(full, req.Visible)
	from := slices.Index(visible, req.EntryID)
	if from < 0 {
		return MoveResult{}, domain.NewValidationError("entryId", "entry is not in the visible list")
	}
	to := min(max(req.ToIndex, 0), len(visible)-1)

	newVisible := slices.Delete(slices.Clone(visible), from, from+1)
	newVisible = slices.Insert(newVisible, to, req.EntryID)

	orderedBefore := make(map[uuid.UUID]bool, len(full))
	for _, it := range full {
		if it.Order > 0 {
			orderedBefore[it.ID] = true
		}
	}
	orderedBefore[req.EntryID] = true

	moved := full[indexOf(full, req.EntryID)]
	rest := slices.DeleteFunc(slices.Clone(full), func(it domain.OrderKey) bool { return it.ID == req.EntryID })

	var at int
	switch {
	case to+1 < len(newVisible):
		at = indexOf(rest, newVisible[to+1])
	case to > 0:
		at = indexOf(rest, newVisible[to-1]) + 1
	default:
		at = indexOf(full, req.EntryID)
	}
	newFull := slices.Insert(rest, at, moved)

	k := 0
	for i, it := range newFull {
		if orderedBefore[it.ID] {
			k = i + 1
		}
	}
	return MoveResult{Applied: true, Assignments: renumber(newFull, k)}, nil
}

// SetOrder puts an entry at a 1-based position in the ordered block, clamped
// to the block end. Order 0 removes the entry from the block.
func SetOrder(items []domain.OrderKey, entryID uuid.UUID, order int) ([]domain.OrderAssignment, error) {
	if order < 0 {
		return nil, domain.NewValidationError("order", "must be >= 0")
	}

	full := Sort(items)
	idx := indexOf(full, entryID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	entry := full[idx]

	var block, tail []domain.OrderKey
	for _, it := range full {
		switch {
		case it.ID == entryID:
		case it.Order > 0:
			block = append(block, it)
		default:
			tail = append(tail, it)
		}
	}

	if order > 0 {
		pos := min(order, len(block)+1) - 1
		block = slices.Insert(block, pos, entry)
	} else {
		tail = append(tail, entry)
	}

	seq := append(block, tail...)
	return renumber(seq, len(block)), nil
}

// Normalize renumbers the ordered entries to 1..k in canonical order.
func Normalize(items []domain.OrderKey) []domain.OrderAssignment {
	full := Sort(items)
	k := 0
	for _, it := range full {
		if it.Order > 0 {
			k++
		}
	}
	return renumber(full, k)
}

// Apply returns items with the assignments applied.
func Apply(items []domain.OrderKey, assignments []domain.OrderAssignment) []domain.OrderKey {
	byID := make(map[uuid.UUID]int, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a.Order
	}
	out := slices.Clone(items)
	for i := range out {
		if o, ok := byID[out[i].ID]; ok {
			out[i].Order = o
		}
	}
	return out
}

// renumber gives the first k entries of seq orders 1..k and the rest 0, and
// returns only the entries whose order changed.
func renumber(seq []domain.OrderKey, k int) []domain.OrderAssignment {
	var out []domain.OrderAssignment
	for i, it := range seq {
		want := 0
		if i < k {
			want = i + 1
		}
		if it.Order != want {
			out = append(out, domain.OrderAssignment{ID: it.ID, Order: want})
		}
	}
	return out
}

// visibleSequence keeps the client's ids that exist, in the client's order.
func visibleSequence(full []domain.OrderKey, ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		out := make([]uuid.UUID, len(full))
		for i, it := range full {
			out[i] = it.ID
		}
		return out
	}
	known := make(map[uuid.UUID]bool, len(full))
	for _, it := range full {
		known[it.ID] = true
	}
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if known[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

func indexOf(seq []domain.OrderKey, id uuid.UUID) int {
	return slices.IndexFunc(seq, func(it domain.OrderKey) bool { return it.ID == id })
}
