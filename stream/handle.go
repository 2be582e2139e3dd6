package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

// Handle is the caller's grip on one logical subscription. The state machine
// is Connecting -> Open -> Closed, returning to Connecting after a close
// only when Reconnect was requested and Close has not been called. The
// reconnect transition is a loop on the handle's goroutine, never a nested
// handler re-entering the open path.
type Handle struct {
	cfg    Config
	url    string
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	conn   *conn
	closed bool

	done chan struct{}
}

// Open validates cfg and starts the channel's run loop. A missing account or
// malformed config fails here, before any dial is attempted; dial and read
// failures are reported asynchronously through OnError.
func Open(ctx context.Context, cfg Config) (*Handle, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	h := &Handle{
		cfg:  cfg,
		url:  ChannelURL(cfg.URL, cfg.Account, cfg.Venue, cfg.Feed, cfg.Stock),
		done: make(chan struct{}),
	}
	h.logger = cfg.Logger.With("feed", cfg.Feed, "account", cfg.Account)
	h.ctx, h.cancel = context.WithCancel(ctx)

	go h.run()

	return h, nil
}

// URL returns the channel URL this handle subscribes to.
func (h *Handle) URL() string {
	return h.url
}

// Done is closed when the run loop has exited: after Close, after a
// non-reconnecting disconnect, or when the open context is cancelled.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Close disables reconnection and tears down the live connection, if any.
// Idempotent. OnClose still fires for the terminal disconnect; use Done to
// wait for the loop to finish. Must not be called from within a handler of
// the same handle (the loop cannot exit while a handler is running).
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	cn := h.conn
	h.mu.Unlock()

	h.cancel()
	if cn != nil {
		cn.close()
	}
	return nil
}

func (h *Handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// run drives the connection lifecycle until the handle is closed or the
// reconnect policy says stop.
func (h *Handle) run() {
	defer close(h.done)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = h.cfg.ReconnectBaseWait
	bo.MaxInterval = h.cfg.ReconnectMaxWait

	for {
		cn, err := dial(h.ctx, h.url, &h.cfg, h.logger)
		if err != nil {
			h.report(fmt.Errorf("dial %s: %w", h.url, err))
			if !h.cfg.Reconnect || h.isClosed() {
				return
			}
			if !h.wait(bo.NextBackOff()) {
				return
			}
			continue
		}

		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			cn.close()
			return
		}
		h.conn = cn
		h.mu.Unlock()

		bo.Reset()
		if h.cfg.OnOpen != nil {
			h.cfg.OnOpen()
		}

		info := h.consume(cn)
		cn.close()

		h.mu.Lock()
		h.conn = nil
		h.mu.Unlock()

		if h.cfg.OnClose != nil {
			h.cfg.OnClose(info)
		}

		if !h.cfg.Reconnect || h.isClosed() {
			return
		}

		h.logger.Info("channel closed, reconnecting",
			"code", info.Code,
			"error", info.Err,
		)
		if !h.wait(bo.NextBackOff()) {
			return
		}
	}
}

// consume dispatches frames from one connection until it dies. Running on
// the handle's goroutine gives single-consumer ordering: a handler finishes
// before the next frame is delivered.
func (h *Handle) consume(cn *conn) CloseInfo {
	for {
		data, receivedAt, err := cn.next()
		if err != nil {
			var ce *websocket.CloseError
			if errors.As(err, &ce) {
				return CloseInfo{Code: ce.Code, Text: ce.Text}
			}
			return CloseInfo{Err: err}
		}

		var frame json.RawMessage
		if err := json.Unmarshal(data, &frame); err != nil {
			h.report(fmt.Errorf("%w: %v", ErrBadFrame, err))
			continue
		}

		if h.cfg.OnMessage != nil {
			h.cfg.OnMessage(Message{Data: frame, ReceivedAt: receivedAt})
		}
	}
}

// report delivers an error to OnError unless the handle was closed; errors
// caused by our own teardown are not the caller's problem.
func (h *Handle) report(err error) {
	if h.isClosed() || h.ctx.Err() != nil {
		return
	}
	if h.cfg.OnError != nil {
		h.cfg.OnError(err)
	}
}

// wait sleeps d, returning false if the handle closed meanwhile.
func (h *Handle) wait(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-h.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
