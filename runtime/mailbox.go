// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/internal/list"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/shard"
)

type result struct {
	out codec.Typed
	err error
}

type operation struct {
	actor  codec.Address
	action actions.Action
	done   chan result
}

type delivery struct {
	from    codec.Address
	payload []byte
	tracked bool
}

// item is one unit of work for a shard. Exactly one field is set.
type item struct {
	op       *operation
	delivery *delivery
	recover  bool
}

// mailbox is the unbounded FIFO in front of a shard. Only its worker
// touches the shard.
type mailbox struct {
	shard shard.Shard
	kind  uint8

	lock   sync.Mutex
	queue  *list.List[*item]
	signal chan struct{}
}

func newMailbox(s shard.Shard, kind uint8) *mailbox {
	return &mailbox{
		shard:  s,
		kind:   kind,
		queue:  &list.List[*item]{},
		signal: make(chan struct{}, 1),
	}
}

func (mb *mailbox) push(it *item) {
	mb.lock.Lock()
	mb.queue.PushBack(it)
	mb.lock.Unlock()

	select {
	case mb.signal <- struct{}{}:
	default:
	}
}

func (mb *mailbox) pop() (*item, bool) {
	mb.lock.Lock()
	defer mb.lock.Unlock()

	return mb.queue.PopFront()
}

// run processes items in arrival order until [ctx] is done.
func (r *Runtime) run(ctx context.Context, mb *mailbox) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		it, ok := mb.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-mb.signal:
				continue
			}
		}
		r.process(ctx, mb, it)
		r.pending.Dec()
	}
}

func (r *Runtime) process(ctx context.Context, mb *mailbox, it *item) {
	switch {
	case it.op != nil:
		out, err := mb.shard.Execute(ctx, it.op.actor, it.op.action)
		it.op.done <- result{out: out, err: err}
	case it.recover:
		if err := mb.shard.Recover(ctx); err != nil {
			r.log.Error("unable to recover shard",
				zap.Stringer("shard", mb.shard.ID()),
				zap.Error(err),
			)
		}
	default:
		r.deliver(ctx, mb, it.delivery)
	}
}

// deliver hands a message to its shard. Tracked messages are retried
// in place, which keeps every later message of the mailbox behind them.
func (r *Runtime) deliver(ctx context.Context, mb *mailbox, d *delivery) {
	msg, err := messages.Parse(d.payload)
	if err != nil {
		r.metrics.dropped.Inc()
		r.log.Error("dropping undecodable message",
			zap.Stringer("from", d.from),
			zap.Stringer("to", mb.shard.ID()),
			zap.Error(err),
		)
		return
	}
	backoff := r.cfg.RetryBackoff
	for {
		err := mb.shard.HandleMessage(ctx, d.from, msg)
		if err == nil {
			r.metrics.delivered.Inc()
			return
		}
		if !d.tracked {
			r.metrics.dropped.Inc()
			r.log.Warn("dropping untracked message",
				zap.Stringer("from", d.from),
				zap.Stringer("to", mb.shard.ID()),
				zap.Uint8("type", msg.GetTypeID()),
				zap.Error(err),
			)
			return
		}
		r.metrics.retries.Inc()
		r.log.Warn("retrying tracked message",
			zap.Stringer("from", d.from),
			zap.Stringer("to", mb.shard.ID()),
			zap.Uint8("type", msg.GetTypeID()),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		backoff *= 2
		if backoff > r.cfg.MaxRetryBackoff {
			backoff = r.cfg.MaxRetryBackoff
		}
	}
}
