package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"lendly/backend/internal/chat"
	"lendly/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socket is one upgraded connection with an outbound frame queue feeding
// the write pump.
type socket struct {
	conn      *websocket.Conn
	send      chan models.ServerFrame
	closeOnce sync.Once
}

func newSocket(conn *websocket.Conn) *socket {
	return &socket{
		conn: conn,
		send: make(chan models.ServerFrame, 32),
	}
}

// push queues a frame for the write pump. A full queue drops the frame: the
// feeds are snapshot-based, so the next delivery carries the full state.
func (s *socket) push(frame models.ServerFrame) {
	select {
	case s.send <- frame:
	default:
		log.Printf("WARNING: Dropping %s frame for slow websocket client", frame.Type)
	}
}

// close stops the write pump. Callers must cancel all feeds before closing
// so nothing pushes into the closed queue.
func (s *socket) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}

func (s *socket) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(frame); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeChatSocket upgrades the request and bridges it to a chat session:
// snapshot batches flow out as "messages" frames, inbound "send" frames
// append messages, failures come back as transient "error" frames.
func (h *Handler) ServeChatSocket(c *gin.Context) {
	identity := CurrentIdentity(c)

	otherUserID := c.Query("other_user_id")
	if otherUserID == "" || otherUserID == identity.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "other_user_id is required and must differ from the caller"})
		return
	}
	otherUserName := c.Query("other_user_name")
	if otherUserName == "" {
		otherUserName = "User"
	}

	params := chat.SessionParams{
		CurrentUserID:   identity.UserID,
		CurrentUserName: identity.Name,
		OtherUserID:     otherUserID,
		OtherUserName:   otherUserName,
		ItemID:          optionalQuery(c, "item_id"),
		ItemName:        optionalQuery(c, "item_name"),
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	sock := newSocket(conn)
	session, err := h.Chat.Open(params, func(batch []models.Message) {
		sock.push(models.ServerFrame{Type: models.FrameMessages, Messages: batch})
	})
	if err != nil {
		// Recoverable "chat unavailable" state: tell the client and close.
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(models.ServerFrame{Type: models.FrameError, Error: "chat unavailable"})
		conn.Close()
		return
	}

	go sock.writePump()
	h.readChatFrames(sock, session)

	// Cancel the feed first; only then is the outbound queue safe to close.
	session.Close()
	sock.close()
}

// readChatFrames consumes client frames until the connection drops.
func (h *Handler) readChatFrames(sock *socket, session *chat.Session) {
	sock.conn.SetReadLimit(maxMessageSize)
	sock.conn.SetReadDeadline(time.Now().Add(pongWait))
	sock.conn.SetPongHandler(func(string) error {
		sock.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := sock.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			return
		}

		var frame models.ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("Error decoding frame in room %s: %v", session.RoomID(), err)
			continue
		}
		if frame.Type != models.FrameSend {
			continue
		}

		if _, err := session.Send(frame.Text); err != nil {
			// Transient: the client keeps the input and may retry.
			switch {
			case errors.Is(err, chat.ErrInvalidMessage):
				sock.push(models.ServerFrame{Type: models.FrameError, Error: "message text is empty"})
			default:
				sock.push(models.ServerFrame{Type: models.FrameError, Error: "failed to send message"})
			}
		}
	}
}

// ServeRoomListSocket streams the caller's conversation list as "rooms"
// frames until the connection drops.
func (h *Handler) ServeRoomListSocket(c *gin.Context) {
	identity := CurrentIdentity(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	sock := newSocket(conn)
	unsubscribe := h.Chat.RoomList.Subscribe(identity.UserID, func(rooms []models.RoomSummary) {
		sock.push(models.ServerFrame{Type: models.FrameRooms, Rooms: rooms})
	})

	go sock.writePump()

	// Drain the connection to notice the client going away.
	sock.conn.SetReadLimit(maxMessageSize)
	sock.conn.SetReadDeadline(time.Now().Add(pongWait))
	sock.conn.SetPongHandler(func(string) error {
		sock.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := sock.conn.ReadMessage(); err != nil {
			break
		}
	}

	unsubscribe()
	sock.close()
}

func optionalQuery(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}
