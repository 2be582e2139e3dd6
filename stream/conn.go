package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn wraps one live websocket connection. Reads happen on the handle's
// goroutine via next; conn only owns the keepalive goroutine and teardown.
type conn struct {
	ws     *websocket.Conn
	cfg    *Config
	logger *slog.Logger

	done chan struct{}
	once sync.Once
}

// dial establishes one connection to url.
func dial(ctx context.Context, url string, cfg *Config, logger *slog.Logger) (*conn, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.DialTimeout,
	}

	ws, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	c := &conn{
		ws:     ws,
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}

	ws.SetReadDeadline(time.Now().Add(cfg.PingTimeout))
	ws.SetPingHandler(func(data string) error {
		ws.SetReadDeadline(time.Now().Add(cfg.PingTimeout))
		return ws.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(cfg.WriteTimeout),
		)
	})
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(cfg.PingTimeout))
	})

	go c.keepalive()

	logger.Debug("channel connected", "url", url)
	return c, nil
}

// next blocks until the next frame or a terminal read error.
func (c *conn) next() ([]byte, time.Time, error) {
	_, data, err := c.ws.ReadMessage()
	receivedAt := time.Now()
	if err == nil {
		c.ws.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout))
	}
	return data, receivedAt, err
}

// close tears the connection down. Safe to call more than once.
func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.ws.Close()
	})
}

// keepalive pings the peer so stalled connections surface as read timeouts.
func (c *conn) keepalive() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}
		}
	}
}
