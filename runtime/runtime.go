// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime hosts every shard of a launch deployment in one process.
// Each shard gets its own mailbox and worker, so a shard only ever
// processes one operation or message at a time while distinct shards run
// concurrently.
package runtime

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/config"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/factory"
	"github.com/ava-labs/fairlaunch/host"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/pebble"
	"github.com/ava-labs/fairlaunch/pool"
	"github.com/ava-labs/fairlaunch/shard"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/storage"
	"github.com/ava-labs/fairlaunch/token"
	"github.com/ava-labs/fairlaunch/tstate"
	"github.com/ava-labs/fairlaunch/types"
	"github.com/ava-labs/fairlaunch/utils"
)

const (
	registryPrefix = 0xff
	idlePoll       = 5 * time.Millisecond
)

var (
	FactoryAddress = codec.CreateAddress(consts.FactoryShardID, ids.Empty)
	PoolAddress    = codec.CreateAddress(consts.PoolShardID, ids.Empty)

	_ host.Host     = (*Runtime)(nil)
	_ actions.Rules = (*rules)(nil)
)

type rules struct {
	cfg *config.Config
}

func (r *rules) DefaultCurve() types.CurveConfig { return r.cfg.GetDefaultCurve() }

func (r *rules) NotifyTrades() bool { return r.cfg.GetNotifyTrades() }

func (*rules) PoolShard() codec.Address { return PoolAddress }

type Runtime struct {
	cfg      *config.Config
	log      logging.Logger
	db       state.Database
	registry state.Database
	rules    *rules
	clock    *mockable.Clock

	gatherer prometheus.Gatherers
	metrics  *metrics
	tokenM   *token.Metrics

	lock      sync.RWMutex
	mailboxes map[codec.Address]*mailbox
	stopped   bool
	closers   []func() error

	factory *factory.Shard
	pool    *pool.Shard

	pending atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	eg     *errgroup.Group
}

// Open builds the logger and database described by [cfg] and starts a
// runtime on top of them. An empty DatabaseDir keeps all state in memory.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	log, closeLog := NewLogger(cfg)
	var (
		db       state.Database
		gatherer prometheus.Gatherer
	)
	if len(cfg.DatabaseDir) == 0 {
		db = memdb.New()
	} else {
		dir, err := utils.InitSubDirectory(cfg.DatabaseDir, "db")
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		pcfg := pebble.NewDefaultConfig()
		pcfg.CacheSize = int64(cfg.PebbleCacheSize)
		pcfg.Sync = cfg.PebbleSync
		pdb, registry, err := pebble.New(dir, pcfg)
		if err != nil {
			_ = closeLog()
			return nil, fmt.Errorf("unable to open database: %w", err)
		}
		db, gatherer = pdb, registry
	}
	r, err := New(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, err
	}
	r.closers = append(r.closers, db.Close, closeLog)
	if gatherer != nil {
		r.gatherer = append(r.gatherer, gatherer)
	}
	return r, nil
}

// New starts the factory, the pool and every token shard recorded in
// [db]. Each shard recovers before it handles anything else. The caller
// keeps ownership of [db].
func New(ctx context.Context, cfg *config.Config, log logging.Logger, db state.Database) (*Runtime, error) {
	registry := prometheus.NewRegistry()
	r := &Runtime{
		cfg:       cfg,
		log:       log,
		db:        db,
		registry:  state.NewPrefixDatabase([]byte{registryPrefix}, db),
		rules:     &rules{cfg: cfg},
		clock:     &mockable.Clock{},
		gatherer:  prometheus.Gatherers{registry},
		mailboxes: map[codec.Address]*mailbox{},
	}
	var err error
	r.metrics, err = newMetrics(registry, func() float64 { return float64(r.pending.Load()) })
	if err != nil {
		return nil, err
	}
	r.tokenM, err = token.NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	fm, err := factory.NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	pm, err := pool.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	r.factory = factory.New(shard.Params{ID: FactoryAddress}, r.shardDB(FactoryAddress), r, r.rules, log, fm)
	r.pool = pool.New(shard.Params{ID: PoolAddress}, r.shardDB(PoolAddress), r, r.rules, log, pm)
	r.mailboxes[FactoryAddress] = newMailbox(r.factory, consts.FactoryShardID)
	r.mailboxes[PoolAddress] = newMailbox(r.pool, consts.PoolShardID)
	if err := r.load(ctx); err != nil {
		return nil, err
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.eg, r.ctx = errgroup.WithContext(ctx)
	for _, mb := range r.mailboxes {
		r.start(mb)
	}
	log.Info("runtime started",
		zap.Int("shards", len(r.mailboxes)),
		zap.Int("deliveryCopies", cfg.DeliveryCopies),
	)
	return r, nil
}

func (r *Runtime) shardDB(addr codec.Address) state.Database {
	return state.NewPrefixDatabase(addr[:], r.db)
}

// load rebuilds the token shards listed in the registry.
func (r *Runtime) load(ctx context.Context) error {
	reader := state.NewReader(r.registry)
	n, err := storage.GetShardCount(ctx, reader)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		rec, ok, err := storage.GetShard(ctx, reader, i)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: missing shard record %d", ErrUnknownShard, i)
		}
		s, err := r.instantiate(rec)
		if err != nil {
			return err
		}
		r.mailboxes[rec.Address] = newMailbox(s, rec.Kind)
	}
	return nil
}

func (r *Runtime) instantiate(rec *storage.ShardRecord) (shard.Shard, error) {
	if rec.Kind != consts.TokenShardID {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, rec.Kind)
	}
	params := shard.Params{
		ID:       rec.Address,
		Owner:    rec.Owner,
		Parent:   rec.Parent,
		InitArgs: rec.InitArgs,
	}
	return token.New(params, r.shardDB(rec.Address), r, r.rules, r.log, r.tokenM)
}

// start launches the worker of [mb] and queues its recovery. Must be
// called with the lock held or before the runtime is shared.
func (r *Runtime) start(mb *mailbox) {
	r.enqueue(mb, &item{recover: true})
	r.metrics.shards.Inc()
	r.eg.Go(func() error {
		return r.run(r.ctx, mb)
	})
}

func (r *Runtime) enqueue(mb *mailbox, it *item) {
	r.pending.Inc()
	mb.push(it)
}

func (r *Runtime) mailbox(addr codec.Address) (*mailbox, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.stopped {
		return nil, ErrStopped
	}
	mb, ok := r.mailboxes[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShard, addr)
	}
	return mb, nil
}

// Send queues [msg] for [to]. The message is serialized here, so the
// receiver never shares memory with the sender.
func (r *Runtime) Send(
	_ context.Context,
	from codec.Address,
	to messages.Destination,
	msg messages.Message,
	tracked bool,
) error {
	return r.send(from, to, msg, tracked, r.cfg.GetDeliveryCopies())
}

func (r *Runtime) send(from codec.Address, to messages.Destination, msg messages.Message, tracked bool, copies int) error {
	mb, err := r.mailbox(to.Shard())
	if err != nil {
		return err
	}
	payload, err := codec.Marshal(msg)
	if err != nil {
		return err
	}
	for i := 0; i < copies; i++ {
		r.enqueue(mb, &item{delivery: &delivery{
			from:    from,
			payload: payload,
			tracked: tracked,
		}})
	}
	return nil
}

// CreateShard provisions a token shard on behalf of the factory. The
// shard is registered durably and started before this returns, so
// messages addressed to it can be delivered right away.
func (r *Runtime) CreateShard(
	ctx context.Context,
	parent codec.Address,
	owner codec.Address,
	initArgs []byte,
) (codec.Address, error) {
	if parent != FactoryAddress {
		return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrInvalidParent, parent)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.stopped {
		return codec.EmptyAddress, ErrStopped
	}
	view := tstate.New(state.NewReader(r.registry))
	nonce, err := storage.GetShardCount(ctx, view)
	if err != nil {
		return codec.EmptyAddress, err
	}
	seed := make([]byte, 0, 2*codec.AddressLen+consts.Uint64Len)
	seed = append(seed, parent[:]...)
	seed = append(seed, owner[:]...)
	seed = binary.BigEndian.AppendUint64(seed, nonce)
	rec := &storage.ShardRecord{
		Address:  codec.CreateAddress(consts.TokenShardID, utils.ToID(seed)),
		Kind:     consts.TokenShardID,
		Owner:    owner,
		Parent:   parent,
		InitArgs: initArgs,
	}
	s, err := r.instantiate(rec)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if _, err := storage.AppendShard(ctx, view, rec); err != nil {
		return codec.EmptyAddress, err
	}
	if err := view.Commit(r.registry); err != nil {
		return codec.EmptyAddress, err
	}
	mb := newMailbox(s, rec.Kind)
	r.mailboxes[rec.Address] = mb
	r.start(mb)
	r.log.Debug("shard created",
		zap.Stringer("shard", rec.Address),
		zap.Stringer("owner", owner),
	)
	return rec.Address, nil
}

// Submit runs [action] on shard [to] as [actor] and waits for its result.
// Cancelling [ctx] stops the wait, not the operation.
func (r *Runtime) Submit(
	ctx context.Context,
	to codec.Address,
	actor codec.Address,
	action actions.Action,
) (codec.Typed, error) {
	mb, err := r.mailbox(to)
	if err != nil {
		return nil, err
	}
	b, err := codec.Marshal(action)
	if err != nil {
		return nil, err
	}
	copied, err := actions.Parse(b)
	if err != nil {
		return nil, err
	}
	op := &operation{actor: actor, action: copied, done: make(chan result, 1)}
	r.metrics.submitted.Inc()
	r.enqueue(mb, &item{op: op})

	select {
	case res := <-op.done:
		return res.out, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.ctx.Done():
		return nil, ErrStopped
	}
}

// Fund credits [amount] of settlement currency to [account] on [asset].
// Credits are not idempotent, so they are delivered exactly once
// regardless of DeliveryCopies.
func (r *Runtime) Fund(asset codec.Address, account codec.Address, amount *uint256.Int) error {
	to, err := messages.NewDestination(codec.EmptyAddress, asset)
	if err != nil {
		return err
	}
	return r.send(codec.EmptyAddress, to, &messages.Credit{Account: account, Amount: amount}, true, 1)
}

// WaitIdle blocks until no operation or message is queued or in flight.
func (r *Runtime) WaitIdle(ctx context.Context) error {
	t := time.NewTicker(idlePoll)
	defer t.Stop()
	for r.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.ctx.Done():
			return ErrStopped
		case <-t.C:
		}
	}
	return nil
}

// Now returns the runtime clock in milliseconds.
func (r *Runtime) Now() int64 {
	return r.clock.Time().UnixMilli()
}

// Clock can be frozen by tests.
func (r *Runtime) Clock() *mockable.Clock {
	return r.clock
}

func (r *Runtime) Factory() *factory.Shard {
	return r.factory
}

func (r *Runtime) Pool() *pool.Shard {
	return r.pool
}

// Token returns the token shard at [addr], if one is running.
func (r *Runtime) Token(addr codec.Address) (*token.Shard, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	mb, ok := r.mailboxes[addr]
	if !ok || mb.kind != consts.TokenShardID {
		return nil, false
	}
	s, ok := mb.shard.(*token.Shard)
	return s, ok
}

// Shards lists every running shard in no particular order.
func (r *Runtime) Shards() []codec.Address {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return maps.Keys(r.mailboxes)
}

func (r *Runtime) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// Stop halts every worker. Queued work that has not started is discarded
// and tracked messages among it are re-derived on the next start.
func (r *Runtime) Stop() error {
	r.lock.Lock()
	if r.stopped {
		r.lock.Unlock()
		return nil
	}
	r.stopped = true
	r.lock.Unlock()

	r.cancel()
	err := r.eg.Wait()
	r.log.Info("runtime stopped")
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
