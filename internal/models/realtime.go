package models

import "time"

// RoomSummary is the conversation-list view of a room for one viewer:
// the other participant plus the denormalized last-message preview.
type RoomSummary struct {
	RoomID          string    `json:"roomId"`
	OtherUserID     string    `json:"otherUserId"`
	OtherUserName   string    `json:"otherUserName"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	ItemID          *string   `json:"itemId,omitempty"`
	ItemName        *string   `json:"itemName,omitempty"`
}

// Client frame types accepted on the chat socket.
const (
	FrameSend = "send"
)

// Server frame types pushed on the chat and room-list sockets.
const (
	FrameMessages = "messages"
	FrameRooms    = "rooms"
	FrameError    = "error"
)

// ClientFrame is one JSON frame read from the browser on the chat socket.
type ClientFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ServerFrame is one JSON frame pushed to the browser. Exactly one of
// Messages, Rooms or Error is populated, matching Type.
type ServerFrame struct {
	Type     string        `json:"type"`
	Messages []Message     `json:"messages,omitempty"`
	Rooms    []RoomSummary `json:"rooms,omitempty"`
	Error    string        `json:"error,omitempty"`
}
