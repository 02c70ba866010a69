// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fairlaunch/actions"
	"github.com/ava-labs/fairlaunch/codec"
	"github.com/ava-labs/fairlaunch/consts"
	"github.com/ava-labs/fairlaunch/messages"
	"github.com/ava-labs/fairlaunch/shard"
	"github.com/ava-labs/fairlaunch/state"
	"github.com/ava-labs/fairlaunch/state/statetest"
	"github.com/ava-labs/fairlaunch/types"
)

var (
	asset   = codec.CreateAddress(consts.TokenShardID, ids.GenerateTestID())
	factory = codec.CreateAddress(consts.FactoryShardID, ids.GenerateTestID())
	pool    = codec.CreateAddress(consts.PoolShardID, ids.GenerateTestID())
	creator = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	alice   = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
)

type envelope struct {
	from    codec.Address
	to      codec.Address
	msg     messages.Message
	tracked bool
}

type fakeHost struct {
	sent []envelope
}

func (h *fakeHost) Send(_ context.Context, from codec.Address, to messages.Destination, msg messages.Message, tracked bool) error {
	h.sent = append(h.sent, envelope{from: from, to: to.Shard(), msg: msg, tracked: tracked})
	return nil
}

func (*fakeHost) CreateShard(context.Context, codec.Address, codec.Address, []byte) (codec.Address, error) {
	panic("token shards do not create shards")
}

func (*fakeHost) Now() int64 { return 1_000 }

func (h *fakeHost) take() []envelope {
	sent := h.sent
	h.sent = nil
	return sent
}

type rules struct{}

func (rules) DefaultCurve() types.CurveConfig { return types.DefaultCurveConfig() }

func (rules) NotifyTrades() bool { return false }

func (rules) PoolShard() codec.Address { return pool }

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func newShard(t *testing.T) (*Shard, *fakeHost, *Metrics) {
	return newShardOn(t, memdb.New())
}

func newShardOn(t *testing.T, db state.Database) (*Shard, *fakeHost, *Metrics) {
	require := require.New(t)
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(err)
	h := &fakeHost{}
	s, err := New(shard.Params{
		ID:       asset,
		Owner:    creator,
		Parent:   factory,
		InitArgs: (&types.TokenParams{Pool: pool}).Bytes(),
	}, db, h, rules{}, logging.NoLog{}, metrics)
	require.NoError(err)
	return s, h, metrics
}

func initMsg() *messages.InitToken {
	return &messages.InitToken{
		Creator:   creator,
		Metadata:  types.Metadata{Name: "Frog", Symbol: "FRG"},
		Curve:     types.DefaultCurveConfig(),
		CreatedAt: 10,
	}
}

// newActiveShard returns an initialized shard with [funds] credited to alice.
func newActiveShard(t *testing.T, funds uint64) (*Shard, *fakeHost, *Metrics) {
	require := require.New(t)
	ctx := context.Background()
	s, h, m := newShard(t)
	require.NoError(s.HandleMessage(ctx, factory, initMsg()))
	require.NoError(s.HandleMessage(ctx, codec.EmptyAddress, &messages.Credit{Account: alice, Amount: u(funds)}))
	h.take()
	return s, h, m
}

func TestInit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s, h, m := newShard(t)

	st, err := s.TokenState(ctx)
	require.NoError(err)
	require.Equal(types.Pending, st.State)
	_, err = s.Price(ctx)
	require.ErrorIs(err, actions.ErrNotInitialized)

	// Only the parent factory may initialize.
	require.NoError(s.HandleMessage(ctx, creator, initMsg()))
	require.Empty(h.take())
	require.Equal(1.0, testutil.ToFloat64(m.dropped))

	require.NoError(s.HandleMessage(ctx, factory, initMsg()))
	sent := h.take()
	require.Len(sent, 1)
	require.Equal(factory, sent[0].to)
	require.True(sent[0].tracked)
	require.Equal(&messages.TokenInitialized{AssetID: asset}, sent[0].msg)

	cfg, err := s.Config(ctx)
	require.NoError(err)
	require.Equal(factory, cfg.Factory)
	require.Equal(pool, cfg.Pool)
	require.Equal(creator, cfg.Creator)
	st, err = s.TokenState(ctx)
	require.NoError(err)
	require.Equal(types.Active, st.State)

	// A redelivered init is acknowledged again without side effects.
	require.NoError(s.HandleMessage(ctx, factory, initMsg()))
	sent = h.take()
	require.Len(sent, 1)
	require.IsType(&messages.TokenInitialized{}, sent[0].msg)

	// A conflicting init is dropped.
	conflicting := initMsg()
	conflicting.Metadata.Name = "Toad"
	require.NoError(s.HandleMessage(ctx, factory, conflicting))
	require.Empty(h.take())
	cfg, err = s.Config(ctx)
	require.NoError(err)
	require.Equal("Frog", cfg.Metadata.Name)
}

func TestCredit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s, _, _ := newShard(t)

	require.NoError(s.HandleMessage(ctx, factory, &messages.Credit{Account: alice, Amount: u(5)}))
	bal, err := s.NativeBalanceOf(ctx, alice)
	require.NoError(err)
	require.True(bal.IsZero())

	require.NoError(s.HandleMessage(ctx, codec.EmptyAddress, &messages.Credit{Account: alice, Amount: u(5)}))
	bal, err = s.NativeBalanceOf(ctx, alice)
	require.NoError(err)
	require.Equal(u(5), bal)
}

func TestTradeAndQueries(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s, h, m := newActiveShard(t, 1_000)

	quote, err := s.QuoteBuy(ctx, u(10_000))
	require.NoError(err)
	require.Equal(u(342), quote.Total)

	_, err = s.Execute(ctx, alice, &actions.Buy{Amount: u(10_000), MaxCost: u(341)})
	require.ErrorIs(err, actions.ErrSlippageExceeded)
	require.Equal(1.0, testutil.ToFloat64(m.rejected))

	out, err := s.Execute(ctx, alice, &actions.Buy{Amount: u(10_000), MaxCost: u(342)})
	require.NoError(err)
	require.Equal(u(333), out.(*actions.BuyResult).Cost)
	require.Empty(h.take())
	require.Equal(1.0, testutil.ToFloat64(m.buys))

	bal, err := s.BalanceOf(ctx, alice)
	require.NoError(err)
	require.Equal(u(10_000), bal)
	reserve, err := s.NativeBalanceOf(ctx, asset)
	require.NoError(err)
	require.Equal(u(333), reserve)
	price, err := s.Price(ctx)
	require.NoError(err)
	// 1000 * 10_000^2 / 10^12 rounds down.
	require.True(price.IsZero())

	sellQuote, err := s.QuoteSell(ctx, u(10_000))
	require.NoError(err)
	require.Equal(u(324), sellQuote.Net)

	_, err = s.Execute(ctx, alice, &actions.Sell{Amount: u(4_000)})
	require.NoError(err)
	require.Equal(1.0, testutil.ToFloat64(m.sells))

	trades, err := s.Trades(ctx, 0, 0)
	require.NoError(err)
	require.Len(trades, 2)
	require.True(trades[0].IsBuy)
	require.False(trades[1].IsBuy)
	trades, err = s.Trades(ctx, 1, 5)
	require.NoError(err)
	require.Len(trades, 1)
	require.Equal(uint64(1), trades[0].Sequence)

	pos, err := s.Position(ctx, alice)
	require.NoError(err)
	require.Equal(uint64(2), pos.Trades)

	_, err = s.Execute(ctx, alice, &actions.CreateToken{})
	require.ErrorIs(err, shard.ErrUnsupportedAction)
}

func TestGraduation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s, h, m := newActiveShard(t, 1_000_000)

	out, err := s.Execute(ctx, alice, &actions.Buy{Amount: u(100_000), MaxCost: u(1_000_000)})
	require.NoError(err)
	require.True(out.(*actions.BuyResult).Graduating)
	require.Equal(1.0, testutil.ToFloat64(m.graduations))

	sent := h.take()
	require.Len(sent, 2)
	require.Equal(pool, sent[0].to)
	require.Equal(&messages.GraduateToken{AssetID: asset, TotalSupply: u(100_000), TotalRaised: u(333_333)}, sent[0].msg)
	require.Equal(factory, sent[1].to)

	// Restarting while graduating re-emits the hand-off.
	require.NoError(s.Recover(ctx))
	sent = h.take()
	require.Len(sent, 2)
	require.IsType(&messages.GraduateToken{}, sent[0].msg)
	require.True(sent[0].tracked)

	poolID := codec.CreateAddress(consts.PoolID, ids.GenerateTestID())
	confirm := &messages.PoolCreated{AssetID: asset, PoolID: poolID}

	// Only the configured pool shard may confirm.
	require.NoError(s.HandleMessage(ctx, factory, confirm))
	require.Empty(h.take())

	require.NoError(s.HandleMessage(ctx, pool, confirm))
	st, err := s.TokenState(ctx)
	require.NoError(err)
	require.Equal(types.Graduated, st.State)
	require.Equal(poolID, st.PoolID)
	sent = h.take()
	require.Len(sent, 1)
	update := sent[0].msg.(*messages.LaunchUpdate)
	require.Equal(types.Graduated, update.State)
	require.Equal(poolID, update.PoolID)

	require.NoError(s.HandleMessage(ctx, pool, confirm))
	require.Empty(h.take())
	require.Equal(1.0, testutil.ToFloat64(m.graduated))

	_, err = s.Execute(ctx, alice, &actions.Buy{Amount: u(1), MaxCost: u(1_000)})
	require.ErrorIs(err, actions.ErrAlreadyGraduated)
	// Allowances keep working on the graduated ledger.
	_, err = s.Execute(ctx, alice, &actions.Approve{Spender: creator, Amount: u(1)})
	require.NoError(err)
}

func TestRecoverActiveIsQuiet(t *testing.T) {
	require := require.New(t)
	s, h, _ := newActiveShard(t, 0)
	require.NoError(s.Recover(context.Background()))
	require.Empty(h.take())
}

func TestPoolCreatedCommitFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := statetest.NewFlakyDatabase()
	s, h, m := newShardOn(t, db)
	require.NoError(s.HandleMessage(ctx, factory, initMsg()))
	require.NoError(s.HandleMessage(ctx, codec.EmptyAddress, &messages.Credit{Account: alice, Amount: u(1_000_000)}))
	_, err := s.Execute(ctx, alice, &actions.Buy{Amount: u(100_000), MaxCost: u(1_000_000)})
	require.NoError(err)
	h.take()

	confirm := &messages.PoolCreated{AssetID: asset, PoolID: codec.CreateAddress(consts.PoolID, ids.GenerateTestID())}
	db.FailWrites(true)
	require.ErrorIs(s.HandleMessage(ctx, pool, confirm), statetest.ErrWriteFailed)
	require.Zero(testutil.ToFloat64(m.graduated))
	require.Empty(h.take())
	st, err := s.TokenState(ctx)
	require.NoError(err)
	require.Equal(types.Graduating, st.State)

	db.FailWrites(false)
	require.NoError(s.HandleMessage(ctx, pool, confirm))
	require.Equal(1.0, testutil.ToFloat64(m.graduated))
	require.Len(h.take(), 1)
}
