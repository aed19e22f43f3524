package paging

import "container/list"

// recencyOrder tracks resident pages from least to most recently used.
// The list front is the LRU page; the index makes touch and remove O(1).
type recencyOrder struct {
	order *list.List
	index map[int]*list.Element
}

func newRecencyOrder() *recencyOrder {
	return &recencyOrder{
		order: list.New(),
		index: make(map[int]*list.Element),
	}
}

func (r *recencyOrder) len() int {
	return r.order.Len()
}

func (r *recencyOrder) contains(pageID int) bool {
	_, ok := r.index[pageID]
	return ok
}

// pushBack records pageID as the most recently used page.
func (r *recencyOrder) pushBack(pageID int) {
	r.index[pageID] = r.order.PushBack(pageID)
}

// touch moves an already tracked page to the most recently used position.
func (r *recencyOrder) touch(pageID int) bool {
	elem, ok := r.index[pageID]
	if !ok {
		return false
	}
	r.order.MoveToBack(elem)
	return true
}

// popFront removes and returns the least recently used page.
func (r *recencyOrder) popFront() (int, bool) {
	elem := r.order.Front()
	if elem == nil {
		return 0, false
	}

	pageID := r.order.Remove(elem).(int)
	delete(r.index, pageID)
	return pageID, true
}

// pages returns the order as a slice, LRU first.
func (r *recencyOrder) pages() []int {
	out := make([]int, 0, r.order.Len())
	for e := r.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(int))
	}
	return out
}
