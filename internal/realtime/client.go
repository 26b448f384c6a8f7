package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/protocol"
)

// Client implements Store over a websocket connection to the relay. One
// Client serves one room.
type Client struct {
	conn *websocket.Conn
	log  *zap.Logger
	id   string

	mu sync.Mutex // serializes writes
}

// Dial connects to the relay for one room. baseURL is the relay's ws
// endpoint, e.g. "ws://localhost:8080". id is the self member id; the relay
// keys writes by it.
func Dial(ctx context.Context, baseURL, roomCode, id string, log *zap.Logger) (*Client, error) {
	u := fmt.Sprintf("%s/ws?room=%s", baseURL, url.QueryEscape(roomCode))
	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	return &Client{conn: conn, log: log, id: id}, nil
}

// Subscribe starts the reader and delivers every room snapshot. The relay
// sends the current snapshot immediately on join, so the first value
// arrives without waiting for a change.
func (c *Client) Subscribe(ctx context.Context) (<-chan member.Snapshot, error) {
	out := make(chan member.Snapshot, 16)
	go func() {
		defer close(out)
		for {
			_, data, err := c.conn.Read(ctx)
			if err != nil {
				if ctx.Err() == nil {
					c.log.Warn("relay read failed", zap.Error(err))
				}
				return
			}
			var msg protocol.ServerMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				c.log.Warn("bad relay frame", zap.Error(err))
				continue
			}
			switch msg.Type {
			case protocol.TypeSnapshot:
				members := msg.Members
				if members == nil {
					members = make(member.Snapshot)
				}
				select {
				case out <- members:
				case <-ctx.Done():
					return
				}
			case protocol.TypeError:
				c.log.Warn("relay error", zap.String("error", msg.Error))
			}
		}
	}()
	return out, nil
}

func (c *Client) Set(ctx context.Context, id string, rec member.Record) error {
	return c.write(ctx, protocol.ClientMessage{Type: protocol.TypeSet, ID: id, Record: &rec})
}

func (c *Client) Update(ctx context.Context, id string, patch member.Patch) error {
	return c.write(ctx, protocol.ClientMessage{Type: protocol.TypeUpdate, ID: id, Patch: &patch})
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.write(ctx, protocol.ClientMessage{Type: protocol.TypeRemove, ID: id})
}

func (c *Client) write(ctx context.Context, msg protocol.ClientMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
