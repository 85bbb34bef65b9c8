package handler

import (
	"lendly/backend/internal/chat"
	"lendly/backend/internal/lending"
	"lendly/backend/internal/storage"
)

// Handler wires the HTTP and WebSocket surface to the chat and lending
// services.
type Handler struct {
	Chat      *chat.Service
	Lending   *lending.Service
	Storage   storage.Storage
	JWTSecret []byte
}

func NewHandler(chatSvc *chat.Service, lendingSvc *lending.Service, s storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{
		Chat:      chatSvc,
		Lending:   lendingSvc,
		Storage:   s,
		JWTSecret: jwtSecret,
	}
}
