package websocketPkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"ProjectFusion/internal/entity"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	OpPreCheck     = "pre_check"
	OpProcessImage = "process_image"
	OpGetOneFace   = "get_one_face"
	OpClassify     = "classify"

	StatusOK    = "ok"
	StatusError = "error"
)

var (
	ErrNotConfigured = errors.New("inference service URL not configured")
	ErrClosed        = errors.New("inference client closed")
)

// Request is one JSON message sent to the inference service. Images travel
// base64 encoded.
type Request struct {
	Op            string         `json:"op"`
	Processor     string         `json:"processor,omitempty"`
	Model         string         `json:"model,omitempty"`
	Options       map[string]any `json:"options,omitempty"`
	Source        string         `json:"source,omitempty"`
	Target        string         `json:"target,omitempty"`
	Image         string         `json:"image,omitempty"`
	Position      int            `json:"position,omitempty"`
	ReferenceFace *entity.Face   `json:"reference_face,omitempty"`
}

type Response struct {
	Status string       `json:"status"`
	Error  string       `json:"error,omitempty"`
	Image  string       `json:"image,omitempty"`
	Label  string       `json:"label,omitempty"`
	Face   *entity.Face `json:"face,omitempty"`
}

// RemoteError is an error reported by the inference service itself.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("inference %s failed: %s", e.Op, e.Message)
}

type IInference interface {
	Call(ctx context.Context, req Request) (*Response, error)
	IsConnected() bool
	Close() error
}

type inferenceClient struct {
	url          string
	log          *logrus.Logger
	conn         *websocket.Conn
	mu           sync.Mutex
	closed       bool
	stopPing     chan struct{}
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	dialer       *websocket.Dialer
}

// New returns a client for the inference service at url. The connection is
// dialed on the first call and re-dialed after a failure.
func New(url string, logger *logrus.Logger) IInference {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	return &inferenceClient{
		url:          url,
		log:          logger,
		pingInterval: 30 * time.Second,
		readTimeout:  120 * time.Second,
		writeTimeout: 10 * time.Second,
		dialer:       &dialer,
	}
}

func NewFromEnv(logger *logrus.Logger) IInference {
	return New(os.Getenv("INFERENCE_WS_URL"), logger)
}

func (c *inferenceClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Call sends req and waits for its response. Calls are serialized over the
// single connection.
func (c *inferenceClient) Call(ctx context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if err := c.ensureConn(ctx); err != nil {
		return nil, err
	}

	writeDeadline := time.Now().Add(c.writeTimeout)
	readDeadline := time.Now().Add(c.readTimeout)
	if deadline, ok := ctx.Deadline(); ok {
		if deadline.Before(writeDeadline) {
			writeDeadline = deadline
		}
		readDeadline = deadline
	}

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		// unblocks the pending read when the caller gives up
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := c.conn.SetWriteDeadline(writeDeadline); err != nil {
		c.dropConn()
		return nil, err
	}
	if err := c.conn.WriteJSON(req); err != nil {
		c.dropConn()
		return nil, fmt.Errorf("failed to send %s request: %w", req.Op, err)
	}

	if err := c.conn.SetReadDeadline(readDeadline); err != nil {
		c.dropConn()
		return nil, err
	}
	var resp Response
	if err := c.conn.ReadJSON(&resp); err != nil {
		c.dropConn()
		if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
			<-ctx.Done()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to read %s response: %w", req.Op, err)
	}

	if resp.Status != StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &RemoteError{Op: req.Op, Message: msg}
	}

	return &resp, nil
}

func (c *inferenceClient) ensureConn(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	if c.url == "" {
		return ErrNotConfigured
	}

	c.log.WithField("url", c.url).Info("Connecting to inference service")

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Warnf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	c.stopPing = make(chan struct{})
	go c.keepAlive(conn, c.stopPing)

	return nil
}

func (c *inferenceClient) keepAlive(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// WriteControl may be called concurrently with other writes.
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
			if err != nil {
				c.log.Warnf("Ping to inference service failed, dropping connection: %v", err)
				c.mu.Lock()
				if c.conn == conn {
					c.dropConn()
				}
				c.mu.Unlock()
				return
			}
		}
	}
}

// dropConn must be called with c.mu held.
func (c *inferenceClient) dropConn() {
	if c.conn == nil {
		return
	}
	close(c.stopPing)
	_ = c.conn.Close()
	c.conn = nil
}

func (c *inferenceClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.dropConn()
	return nil
}
