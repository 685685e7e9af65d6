package repository

import "inkwell/internal/models"

// BuildCommentTree reconstructs the reply hierarchy from a flat row set
// ordered by creation time ascending.
//
// Two passes over the input: the first indexes a mutable copy of every
// comment by id with an empty reply list, the second appends each comment
// to its parent's replies (or to the root sequence when it has no parent).
// Input order is preserved at every level, so siblings stay in creation
// order. A comment whose parent id is not present in the set is dropped
// entirely; it appears neither as a root nor nested anywhere.
//
// Nodes never hold a reference back to their parent. The returned root
// slice is the sole owner of the forest.
func BuildCommentTree(flat []*models.Comment) []*models.Comment {
	nodes := make(map[uint]*models.Comment, len(flat))
	roots := make([]*models.Comment, 0, len(flat))

	for _, c := range flat {
		node := *c
		node.Replies = []*models.Comment{}
		nodes[c.ID] = &node
	}

	for _, c := range flat {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			// Orphan: dangling parent reference, silently excluded.
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}
