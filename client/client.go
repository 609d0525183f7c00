// Package client binds the capability tiers to a live transport
// connection. Each adapter owns exactly one tier: BasicClient forwards
// the Basic contract, StandardClient composes a BasicClient, and
// CompleteClient composes a StandardClient. Adapters translate every
// transport answer through the closed error taxonomy, bridge callback
// completion into context-aware calls with a structural single-fire
// guard, and never retry; retry policy belongs to the caller.
package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/transport"
)

const instrumentationName = "github.com/rbaliyan/secure-rpc/client"

// Option configures an adapter.
type Option func(*options)

type options struct {
	logger zerolog.Logger
}

// WithLogger attaches a logger to the adapter. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// core carries the per-connection state shared by the tier adapters:
// the connection itself, the dead flag set on invalidation, and the
// observability handles. Exactly one core exists per constructed
// adapter chain; embedded lower tiers share it read-only.
type core struct {
	conn transport.Conn
	log  zerolog.Logger

	tracer   trace.Tracer
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram

	dead     atomic.Bool
	deadOnce sync.Once
	deadCh   chan struct{}
	deadErr  atomic.Pointer[securerpc.Error]
}

func newCore(conn transport.Conn, opts ...Option) *core {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	meter := otel.Meter(instrumentationName)
	calls, _ := meter.Int64Counter("securerpc.client.calls",
		metric.WithDescription("Calls issued through a capability adapter"))
	failures, _ := meter.Int64Counter("securerpc.client.failures",
		metric.WithDescription("Calls that resolved to a failure"))
	latency, _ := meter.Float64Histogram("securerpc.client.duration",
		metric.WithDescription("Bridged call duration"),
		metric.WithUnit("ms"))

	c := &core{
		conn:     conn,
		log:      o.logger,
		tracer:   otel.Tracer(instrumentationName),
		calls:    calls,
		failures: failures,
		latency:  latency,
		deadCh:   make(chan struct{}),
	}
	conn.OnInvalidate(c.invalidate)
	return c
}

// invalidate marks the adapter permanently dead. In-flight calls parked
// in call() observe deadCh; later calls fail fast without touching the
// transport.
func (c *core) invalidate(reason error) {
	c.deadOnce.Do(func() {
		classified := securerpc.Classify(reason)
		if classified == nil {
			classified = securerpc.ConnectionInvalidated("")
		}
		c.deadErr.Store(classified)
		c.dead.Store(true)
		close(c.deadCh)
		c.log.Warn().Err(classified).Msg("connection invalidated, adapter is dead")
	})
}

// oneShot is the structural resume-exactly-once guard for a bridged
// call. Whichever of the transport callback, the context, or the
// invalidation path wins the race, the suspension point resolves once.
type oneShot struct {
	fired atomic.Bool
}

func (o *oneShot) first() bool {
	return o.fired.CompareAndSwap(false, true)
}

// call issues one operation and parks until the completion callback,
// the context, or connection invalidation resolves it.
func (c *core) call(ctx context.Context, op transport.Op, args ...[]byte) (transport.Reply, error) {
	if c.dead.Load() {
		return transport.Reply{}, securerpc.ServiceUnavailable()
	}

	ctx, span := c.tracer.Start(ctx, "securerpc."+string(op),
		trace.WithAttributes(attribute.String("securerpc.op", string(op))))
	defer span.End()

	opAttr := metric.WithAttributes(attribute.String("op", string(op)))
	c.calls.Add(ctx, 1, opAttr)
	start := time.Now()

	reply, err := c.dispatch(ctx, op, args)

	c.latency.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), opAttr)
	if err == nil && reply.Err != nil {
		err = securerpc.Classify(reply.Err)
		reply = transport.Reply{}
	}
	if err != nil {
		c.failures.Add(ctx, 1, opAttr)
		span.RecordError(err)
		c.log.Debug().Str("op", string(op)).Err(err).Msg("call failed")
		return transport.Reply{}, err
	}
	c.log.Debug().Str("op", string(op)).Msg("call completed")
	return reply, nil
}

func (c *core) dispatch(ctx context.Context, op transport.Op, args [][]byte) (transport.Reply, error) {
	fire := &oneShot{}
	ch := make(chan transport.Reply, 1)

	err := c.conn.Send(op, args, func(r transport.Reply) {
		if fire.first() {
			ch <- r
		}
	})
	if err != nil {
		return transport.Reply{}, securerpc.Classify(err)
	}

	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return transport.Reply{}, securerpc.Classify(ctx.Err())
	case <-c.deadCh:
		return transport.Reply{}, c.deadErr.Load()
	}
}

// BasicClient implements the Basic tier over one connection.
type BasicClient struct {
	*core
}

// Compile-time interface check.
var _ securerpc.BasicService = (*BasicClient)(nil)

// NewBasicClient binds a Basic tier adapter to conn. The adapter
// registers its invalidation observer immediately; once the connection
// dies every call fails fast and a fresh adapter over a fresh
// connection is required to resume.
func NewBasicClient(conn transport.Conn, opts ...Option) *BasicClient {
	return &BasicClient{core: newCore(conn, opts...)}
}

// ProtocolID identifies the Basic contract.
func (c *BasicClient) ProtocolID() string {
	return securerpc.ProtocolIDBasic
}

// Ping probes the remote service for liveness.
func (c *BasicClient) Ping(ctx context.Context) (bool, error) {
	r, err := c.call(ctx, transport.OpPing)
	if err != nil {
		return false, err
	}
	return securerpc.DecodeReply(r, securerpc.BoolPayload)
}

// SynchroniseKeys pushes key material to the remote side. Empty input
// is forwarded as a legitimate no-op; only the remote side may reject
// it.
func (c *BasicClient) SynchroniseKeys(ctx context.Context, syncData securerpc.SecureBytes) error {
	raw, err := syncData.Bytes()
	if err != nil {
		return securerpc.Classify(err)
	}
	defer securerpc.Wipe(raw)

	r, err := c.call(ctx, transport.OpSynchroniseKeys, raw)
	if err != nil {
		return err
	}
	return securerpc.DecodeVoid(r)
}
