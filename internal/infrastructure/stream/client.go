package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"empire_trader/internal/domain"
	"empire_trader/pkg/errcodes"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	messageBuffer    = 256
)

// Client is one persistent event-stream connection. It delivers typed
// envelopes once connected; reconnection policy stays at this transport
// layer and is not part of the consumer contract.
type Client struct {
	url       string
	userAgent string
	logger    *slog.Logger

	conn *websocket.Conn

	messages chan Envelope
	errors   chan error
	done     chan struct{}

	writeMu sync.Mutex

	mu        sync.RWMutex
	connected bool
	closed    bool
}

type Option func(*Client)

// WithURL overrides the derived endpoint, used by tests.
func WithURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// NewClient prepares a connection to wss://trade.<origin>/trade.
func NewClient(origin, userAgent string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		url:       fmt.Sprintf("wss://trade.%s/trade", origin),
		userAgent: userAgent,
		logger:    logger,
		messages:  make(chan Envelope, messageBuffer),
		errors:    make(chan error, 1),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.NewError(errcodes.StreamNotConnected, "client already closed")
	}
	c.mu.Unlock()

	header := http.Header{}
	header.Set("user-agent", c.userAgent)

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return domain.WrapError(err, errcodes.StreamConnectFailed,
			fmt.Sprintf("dial %s", c.url))
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	go c.readLoop()

	c.logger.Debug("stream connected", "url", c.url)

	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	c.mu.Unlock()

	close(c.done)

	if c.conn != nil {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return c.conn.Close()
	}

	return nil
}

// Emit sends one named event. A nil payload sends the bare event name.
func (c *Client) Emit(event string, payload any) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return domain.NewError(errcodes.StreamNotConnected, "emit on closed stream")
	}
	c.mu.RUnlock()

	env := struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: event, Data: payload}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) Messages() <-chan Envelope {
	return c.messages
}

func (c *Client) Errors() <-chan error {
	return c.errors
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// Errors after Close are expected noise.
			select {
			case <-c.done:
				return
			default:
				select {
				case c.errors <- err:
				default:
				}
				return
			}
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("unparseable stream frame", "error", err)
			continue
		}

		select {
		case c.messages <- env:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping event", "event", env.Event)
		}
	}
}
