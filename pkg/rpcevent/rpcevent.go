// Package rpcevent exposes the notifications of a JSON-RPC connection as an
// event producer, so that an external asynchronous feed can join a
// component's event stream like any widget event or timer.
package rpcevent

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"

	"src.tether.dev/pkg/stream"
)

// Notification is one JSON-RPC notification received from the peer.
type Notification struct {
	Method string
	Params json.RawMessage
}

// Feed is an event producer backed by a JSON-RPC connection. Every
// notification from the peer is pushed to subscribers in arrival order;
// notifications arriving before anyone subscribes are dropped, like any
// other push source. Requests that expect a response are answered with a
// method-not-found error, since a feed only consumes notifications.
type Feed struct {
	conn    *jsonrpc2.Conn
	emitter stream.Emitter[Notification]
}

var _ stream.Producer[Notification] = (*Feed)(nil)

var errMethodNotFound = &jsonrpc2.Error{
	Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}

// NewFeed starts a feed over the given transport. The connection lives until
// Close is called, the context is cancelled, or the peer disconnects.
func NewFeed(ctx context.Context, rwc io.ReadWriteCloser) *Feed {
	f := &Feed{}
	f.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(f.handle))
	return f
}

func (f *Feed) handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	if !req.Notif {
		return nil, errMethodNotFound
	}
	var params json.RawMessage
	if req.Params != nil {
		params = *req.Params
	}
	f.emitter.Emit(Notification{Method: req.Method, Params: params})
	return nil, nil
}

// Subscribe implements [stream.Producer].
func (f *Feed) Subscribe(fn func(Notification)) func() {
	return f.emitter.Subscribe(fn)
}

// Close closes the underlying connection.
func (f *Feed) Close() error { return f.conn.Close() }

// Disconnected returns a channel closed when the connection terminates.
func (f *Feed) Disconnected() <-chan struct{} { return f.conn.DisconnectNotify() }
