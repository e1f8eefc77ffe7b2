package gridastar

// frontierItem is one queued cell. F and G are the priority it was queued
// (or last fixed) with, which under FrontierLazy may lag the live gCost.
type frontierItem struct {
	Cell         Cell
	G            int
	F            int
	IndexInQueue int
}

// frontier is a min-heap ordered by (F, G, Row, Col). Smaller G wins an F
// tie so deeper paths are preferred; the cell coordinates make the order
// total.
type frontier []*frontierItem

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.F != b.F {
		return a.F < b.F
	}
	if a.G != b.G {
		return a.G < b.G
	}
	if a.Cell.Row != b.Cell.Row {
		return a.Cell.Row < b.Cell.Row
	}
	return a.Cell.Col < b.Cell.Col
}

func (q frontier) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].IndexInQueue = i
	q[j].IndexInQueue = j
}

func (q *frontier) Push(x any) {
	item := x.(*frontierItem)
	item.IndexInQueue = len(*q)
	*q = append(*q, item)
}

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.IndexInQueue = -1
	*q = old[:n-1]
	return item
}
