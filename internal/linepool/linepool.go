/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package linepool holds reusable scratch buffers for the framer so that
// reading one frame per line doesn't allocate fresh storage every time.
package linepool

// Scrubbable is implemented by pooled items that can wipe their contents
// before being recycled.
type Scrubbable interface {
	Scrub()
}

// InitFunc constructs a new, empty item for the pool.
type InitFunc[T Scrubbable] func() T

// Pool is a channel-backed object pool with an explicit warmup step, useful
// when the caller wants to pre-allocate before the first frame arrives.
type Pool[T Scrubbable] struct {
	queue chan T
	init  InitFunc[T]
}

// New creates a Pool with room for max items and the given factory.
func New[T Scrubbable](max int, init InitFunc[T]) *Pool[T] {
	return &Pool[T]{
		queue: make(chan T, max),
		init:  init,
	}
}

// Warmup fills the pool with up to num freshly constructed items.
func (p *Pool[T]) Warmup(num int) {
	for i := 0; i < num; i++ {
		select {
		case p.queue <- p.init():
			// nop
		default:
			return
		}
	}
}

// Get takes an item from the pool, constructing one if the pool is empty.
func (p *Pool[T]) Get() (item T) {
	select {
	case item = <-p.queue:
	default:
		item = p.init()
	}
	return
}

// Put scrubs and returns an item to the pool, dropping it if the pool is full.
func (p *Pool[T]) Put(item T) {
	item.Scrub()
	select {
	case p.queue <- item:
	default:
		// let it go, let it go...
	}
}
