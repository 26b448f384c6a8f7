// Package ws bridges relay websocket connections to room actors.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tracelink/tracelink/internal/hub"
	"github.com/tracelink/tracelink/internal/member"
	"github.com/tracelink/tracelink/internal/protocol"
	"github.com/tracelink/tracelink/internal/room"
)

var validate = validator.New()

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("room")
		if !member.ValidCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room unavailable", http.StatusInternalServerError)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Snapshot, 8)
		subID := uuid.NewString()

		rm.Inbox() <- room.Join{SubID: subID, Outbox: out}
		log.Info("subscriber joined", zap.String("room", code), zap.String("sub", subID))
		defer func() { rm.Inbox() <- room.Leave{SubID: subID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := protocol.ServerMessage{
					Type:    protocol.TypeSnapshot,
					Version: snap.Version,
					Members: snap.Members,
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			msg, ok := toRoomMsg(cm)
			if !ok {
				writeError(r.Context(), conn, "bad message")
				continue
			}
			rm.Inbox() <- msg
		}
	}
}

func toRoomMsg(cm protocol.ClientMessage) (room.Msg, bool) {
	if cm.ID == "" {
		return nil, false
	}
	switch cm.Type {
	case protocol.TypeSet:
		if cm.Record == nil || validate.Struct(cm.Record) != nil {
			return nil, false
		}
		return room.Put{ID: cm.ID, Record: *cm.Record}, true
	case protocol.TypeUpdate:
		if cm.Patch == nil {
			return nil, false
		}
		return room.Merge{ID: cm.ID, Patch: *cm.Patch}, true
	case protocol.TypeRemove:
		return room.Delete{ID: cm.ID}, true
	default:
		return nil, false
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, reason string) {
	payload, _ := json.Marshal(protocol.ServerMessage{Type: protocol.TypeError, Error: reason})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
