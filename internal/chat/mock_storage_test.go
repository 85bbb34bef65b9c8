package chat_test

import (
	"time"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage implements the storage methods the chat core touches. The
// embedded interface covers the rest; calling an unstubbed method panics,
// which is what a test would want anyway.
type MockStorage struct {
	storage.Storage
	mock.Mock
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) CreateRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) UpdateRoomPreview(roomID, lastMessage string, at time.Time) error {
	args := m.Called(roomID, lastMessage, at)
	return args.Error(0)
}

func (m *MockStorage) RoomsForUser(userID string) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID string) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(roomID, viewerID string) (int64, error) {
	args := m.Called(roomID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUnread(roomID, viewerID string) (int64, error) {
	args := m.Called(roomID, viewerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountUnreadTotal(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) NotifyRoomChanged(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockStorage) NotifyRoomListChanged(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) WatchRoom(roomID string) (<-chan struct{}, func()) {
	args := m.Called(roomID)
	return args.Get(0).(chan struct{}), args.Get(1).(func())
}

func (m *MockStorage) WatchRoomList(userID string) (<-chan struct{}, func()) {
	args := m.Called(userID)
	return args.Get(0).(chan struct{}), args.Get(1).(func())
}
