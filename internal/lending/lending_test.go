package lending_test

import (
	"testing"

	"lendly/backend/internal/lending"
	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorage stubs the storage methods the lending service touches.
type MockStorage struct {
	storage.Storage
	mock.Mock
}

func (m *MockStorage) SaveItem(item *models.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockStorage) GetItemByID(itemID string) (*models.Item, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockStorage) SetItemAvailability(itemID string, available bool) error {
	args := m.Called(itemID, available)
	return args.Error(0)
}

func (m *MockStorage) SaveBorrowRequest(req *models.BorrowRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockStorage) GetBorrowRequestByID(requestID string) (*models.BorrowRequest, error) {
	args := m.Called(requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRequest), args.Error(1)
}

func (m *MockStorage) ItemsByOwner(ownerID string) ([]models.Item, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockStorage) RequestsByBorrower(borrowerID string) ([]models.BorrowRequest, error) {
	args := m.Called(borrowerID)
	return args.Get(0).([]models.BorrowRequest), args.Error(1)
}

func (m *MockStorage) RequestsByOwner(ownerID string) ([]models.BorrowRequest, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.BorrowRequest), args.Error(1)
}

func (m *MockStorage) CountUnreadTotal(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreateItem_RequiresName(t *testing.T) {
	storageMock := new(MockStorage)
	svc := lending.NewService(storageMock)

	err := svc.CreateItem("u1", "Alice", &models.Item{Name: "   "})

	assert.ErrorIs(t, err, lending.ErrInvalidItem)
	storageMock.AssertNotCalled(t, "SaveItem", mock.Anything)
}

func TestCreateItem_SetsOwnerAndAvailability(t *testing.T) {
	storageMock := new(MockStorage)
	svc := lending.NewService(storageMock)

	storageMock.On("SaveItem", mock.AnythingOfType("*models.Item")).Return(nil)

	item := &models.Item{Name: "Drill", Availability: false}
	require.NoError(t, svc.CreateItem("u1", "Alice", item))

	assert.Equal(t, "u1", item.OwnerID)
	assert.Equal(t, "Alice", item.OwnerName)
	assert.True(t, item.Availability, "new listings start available")
}

func TestCreateRequest_DenormalizesItemAndOwner(t *testing.T) {
	storageMock := new(MockStorage)
	svc := lending.NewService(storageMock)

	storageMock.On("GetItemByID", "42").Return(&models.Item{ID: "42", Name: "Drill", OwnerID: "u2"}, nil)
	storageMock.On("SaveBorrowRequest", mock.AnythingOfType("*models.BorrowRequest")).Return(nil)

	req, err := svc.CreateRequest("u1", "Alice", "42", " please ")

	require.NoError(t, err)
	assert.Equal(t, "Drill", req.ItemName)
	assert.Equal(t, "u2", req.OwnerID)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, "please", req.Message)
}

func TestCreateRequest_UnknownItem(t *testing.T) {
	storageMock := new(MockStorage)
	svc := lending.NewService(storageMock)

	storageMock.On("GetItemByID", "missing").Return(nil, nil)

	_, err := svc.CreateRequest("u1", "Alice", "missing", "")

	assert.ErrorIs(t, err, lending.ErrItemNotFound)
}

func TestUpdateRequestStatus_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		caller    string
		from      string
		to        string
		wantErr   error
		wantAvail *bool
	}{
		{"owner approves pending", "owner", models.RequestPending, models.RequestApproved, nil, boolPtr(false)},
		{"owner declines pending", "owner", models.RequestPending, models.RequestDeclined, nil, nil},
		{"borrower returns approved", "borrower", models.RequestApproved, models.RequestReturned, nil, boolPtr(true)},
		{"owner returns approved", "owner", models.RequestApproved, models.RequestReturned, nil, boolPtr(true)},
		{"borrower cannot approve", "borrower", models.RequestPending, models.RequestApproved, lending.ErrForbidden, nil},
		{"cannot approve twice", "owner", models.RequestApproved, models.RequestApproved, lending.ErrBadTransition, nil},
		{"cannot return pending", "owner", models.RequestPending, models.RequestReturned, lending.ErrBadTransition, nil},
		{"unknown status", "owner", models.RequestPending, "lost", lending.ErrBadTransition, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storageMock := new(MockStorage)
			svc := lending.NewService(storageMock)

			req := &models.BorrowRequest{
				ID:         "r1",
				ItemID:     "42",
				BorrowerID: "borrower",
				OwnerID:    "owner",
				Status:     tt.from,
			}
			storageMock.On("GetBorrowRequestByID", "r1").Return(req, nil)
			storageMock.On("SaveBorrowRequest", mock.Anything).Return(nil)
			storageMock.On("SetItemAvailability", "42", mock.AnythingOfType("bool")).Return(nil)

			updated, err := svc.UpdateRequestStatus(tt.caller, "r1", tt.to)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				storageMock.AssertNotCalled(t, "SaveBorrowRequest", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
			if tt.wantAvail != nil {
				storageMock.AssertCalled(t, "SetItemAvailability", "42", *tt.wantAvail)
			} else {
				storageMock.AssertNotCalled(t, "SetItemAvailability", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestStats_AggregatesCounters(t *testing.T) {
	storageMock := new(MockStorage)
	svc := lending.NewService(storageMock)

	storageMock.On("ItemsByOwner", "u1").Return(make([]models.Item, 3), nil)
	storageMock.On("RequestsByBorrower", "u1").Return(make([]models.BorrowRequest, 2), nil)
	storageMock.On("RequestsByOwner", "u1").Return(make([]models.BorrowRequest, 5), nil)
	storageMock.On("CountUnreadTotal", "u1").Return(int64(4), nil)

	stats, err := svc.Stats("u1")

	require.NoError(t, err)
	assert.Equal(t, 3, stats.ItemsListed)
	assert.Equal(t, 2, stats.RequestsMade)
	assert.Equal(t, 5, stats.RequestsReceived)
	assert.Equal(t, int64(4), stats.UnreadMessages)
}

func boolPtr(b bool) *bool { return &b }
