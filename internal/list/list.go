// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package list

// List implements a double-linked list. It offers
// similar functionality as container/list but uses
// generics.
//
// This data structure backs the unbounded FIFO mailbox of each shard.
type List[T any] struct {
	root Element[T]
	size int
}

type Element[T any] struct {
	prev *Element[T]
	next *Element[T]
	list *List[T]

	value T
}

func (e *Element[T]) Next() *Element[T] {
	n := e.next
	if e.list == nil || n == &e.list.root {
		return nil
	}
	return n
}

func (e *Element[T]) Value() T {
	return e.value
}

func (l *List[T]) First() *Element[T] {
	if l.size == 0 {
		return nil
	}
	return l.root.next
}

func (l *List[T]) PushBack(v T) *Element[T] {
	if l.root.next == nil {
		l.init()
	}
	return l.insertValueAfter(v, l.root.prev)
}

// PopFront removes and returns the oldest value.
func (l *List[T]) PopFront() (T, bool) {
	e := l.First()
	if e == nil {
		var empty T
		return empty, false
	}
	return l.Remove(e), true
}

func (l *List[T]) Remove(e *Element[T]) T {
	if e.list == l {
		l.remove(e)
	}
	return e.value
}

func (l *List[T]) Size() int {
	return l.size
}

func (l *List[T]) init() {
	l.root = Element[T]{}
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *List[T]) insertValueAfter(v T, at *Element[T]) *Element[T] {
	e := &Element[T]{value: v, prev: at, next: at.next, list: l}
	e.prev.next = e
	e.next.prev = e
	l.size++
	return e
}

func (l *List[T]) remove(e *Element[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	l.size--
}
