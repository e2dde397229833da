package websocketPkg

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var ErrNotConnected = errors.New("not connected to turn endpoint")

// ITurnClient drives receiving turns over the /ws endpoint.
type ITurnClient interface {
	Turn(ctx context.Context, req receiving.TurnRequest) (*receiving.TurnResponse, error)
	IsConnected() bool
	Close() error
}

type turnClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	log          *logrus.Logger
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	done         chan struct{}
}

type turnReply struct {
	receiving.TurnResponse
	Error string `json:"error,omitempty"`
}

// Dial opens a turn connection for sessionID. header may carry extra
// handshake headers such as Authorization.
func Dial(ctx context.Context, url, sessionID string, header http.Header, log *logrus.Logger) (ITurnClient, error) {
	if header == nil {
		header = http.Header{}
	}
	if sessionID != "" {
		header.Set(receiving.SessionHeader, sessionID)
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	log.Debugf("Connecting to turn endpoint at %s", url)

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	c := &turnClient{
		conn:         conn,
		log:          log,
		pingInterval: 30 * time.Second,
		readTimeout:  45 * time.Second,
		writeTimeout: 5 * time.Second,
		done:         make(chan struct{}),
	}

	go c.keepAlive()

	return c, nil
}

func (c *turnClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn != nil
}

func (c *turnClient) Turn(ctx context.Context, req receiving.TurnRequest) (*receiving.TurnResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	writeDeadline := time.Now().Add(c.writeTimeout)
	readDeadline := time.Now().Add(c.readTimeout)
	if deadline, ok := ctx.Deadline(); ok && deadline.Before(readDeadline) {
		readDeadline = deadline
	}

	_ = c.conn.SetWriteDeadline(writeDeadline)
	if err := c.conn.WriteJSON(req); err != nil {
		c.drop()
		return nil, fmt.Errorf("error sending turn: %w", err)
	}

	_ = c.conn.SetReadDeadline(readDeadline)
	_, message, err := c.conn.ReadMessage()
	if err != nil {
		c.drop()
		return nil, fmt.Errorf("error reading turn response: %w", err)
	}
	_ = c.conn.SetReadDeadline(time.Time{})

	var reply turnReply
	if err := jsoniter.Unmarshal(message, &reply); err != nil {
		return nil, fmt.Errorf("error unmarshaling turn response: %w", err)
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}

	return &reply.TurnResponse, nil
}

func (c *turnClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeTimeout),
	)
	c.drop()
	return nil
}

// drop closes the connection; callers hold mu.
func (c *turnClient) drop() {
	if c.conn == nil {
		return
	}
	c.conn.Close()
	c.conn = nil
	close(c.done)
}

func (c *turnClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return
		}

		err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Ping failed, marking turn connection as dead: %v", err)
			c.drop()
		}
		c.mu.Unlock()
	}
}
