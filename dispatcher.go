/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/btnmasher/trovochat/internal/submap"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultSinkCapacity is the per-subscriber channel depth used when a
// Dispatcher is built with NewDispatcher's zero value.
const DefaultSinkCapacity = 64

// Dispatcher maintains a mapping from typed-message kind to its
// subscribers. Publish is non-blocking from the caller's perspective: a
// slow subscriber has its oldest buffered item dropped rather than stalling
// the publisher, which is always the runner's reader loop.
type Dispatcher struct {
	kinds    *submap.Map[reflect.Type, *kindBucket]
	capacity int
	log      *logrus.Logger
}

type kindBucket struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]*subscription
	dropped atomic.Bool
}

type subscription struct {
	id     uuid.UUID
	ch     chan any
	closed atomic.Bool
}

// NewDispatcher builds an empty Dispatcher. A capacity of 0 uses
// DefaultSinkCapacity for every subscriber channel.
func NewDispatcher(capacity int, log *logrus.Logger) *Dispatcher {
	if capacity <= 0 {
		capacity = DefaultSinkCapacity
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		kinds:    submap.New[reflect.Type, *kindBucket](),
		capacity: capacity,
		log:      log,
	}
}

func kindOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (d *Dispatcher) bucketFor(kind reflect.Type) *kindBucket {
	return d.kinds.GetOrCreate(kind, func() *kindBucket {
		return &kindBucket{subs: make(map[uuid.UUID]*subscription)}
	})
}

// Subscribe registers a new sink for typed messages of kind T, returning a
// receive-only channel and an unsubscribe function. The channel is closed
// when unsubscribe is called or the dispatcher is cleared.
func Subscribe[T any](d *Dispatcher) (<-chan T, func()) {
	kind := kindOf[T]()
	bucket := d.bucketFor(kind)

	sub := &subscription{id: uuid.New(), ch: make(chan any, d.capacity)}

	bucket.mu.Lock()
	bucket.subs[sub.id] = sub
	bucket.mu.Unlock()

	out := make(chan T, d.capacity)
	go func() {
		defer close(out)
		for v := range sub.ch {
			out <- v.(T)
		}
	}()

	unsubscribe := func() {
		if !sub.closed.CompareAndSwap(false, true) {
			return
		}
		bucket.mu.Lock()
		delete(bucket.subs, sub.id)
		bucket.mu.Unlock()
		close(sub.ch)
	}
	return out, unsubscribe
}

// Publish fans msg out to every subscriber of its concrete type. A closed
// sink is dropped silently; a full sink has its oldest item evicted to make
// room. Only the first drop for a given kind is logged; later drops for
// that kind are not.
func (d *Dispatcher) Publish(msg any) {
	kind := reflect.TypeOf(msg)
	bucket, ok := d.kinds.Get(kind)
	if !ok {
		return
	}

	bucket.mu.Lock()
	subs := make([]*subscription, 0, len(bucket.subs))
	for _, s := range bucket.subs {
		subs = append(subs, s)
	}
	bucket.mu.Unlock()

	for _, s := range subs {
		if s.closed.Load() {
			continue
		}
		select {
		case s.ch <- msg:
		default:
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- msg:
			default:
			}
			if bucket.dropped.CompareAndSwap(false, true) {
				d.log.WithField("kind", kind.String()).Warn("dispatcher: dropped oldest message for a slow subscriber")
			}
		}
	}
}

// Clear unsubscribes and closes every sink across every kind.
func (d *Dispatcher) Clear() {
	d.kinds.ForEach(func(_ reflect.Type, bucket *kindBucket) {
		bucket.mu.Lock()
		subs := bucket.subs
		bucket.subs = make(map[uuid.UUID]*subscription)
		bucket.mu.Unlock()
		for _, s := range subs {
			if s.closed.CompareAndSwap(false, true) {
				close(s.ch)
			}
		}
	})
}

// WaitFor is a one-shot convenience that resolves on the next message of
// kind T, or when ctx is done.
func WaitFor[T any](ctx context.Context, d *Dispatcher) (T, error) {
	var zero T
	out, unsubscribe := Subscribe[T](d)
	defer unsubscribe()
	select {
	case v := <-out:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
