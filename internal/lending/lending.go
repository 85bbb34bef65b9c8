// Package lending provides the item catalog and borrow-request lifecycle
// around which conversations start.
package lending

import (
	"errors"
	"fmt"
	"strings"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"
)

var (
	// ErrItemNotFound means the referenced catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrRequestNotFound means the referenced borrow request does not exist.
	ErrRequestNotFound = errors.New("borrow request not found")
	// ErrInvalidItem means a required item field was missing.
	ErrInvalidItem = errors.New("item name is required")
	// ErrForbidden means the caller may not act on this record.
	ErrForbidden = errors.New("not allowed for this user")
	// ErrBadTransition means the requested status change is not in the
	// pending -> approved|declined, approved -> returned lifecycle.
	ErrBadTransition = errors.New("invalid status transition")
)

// Service handles the business logic for the catalog and borrow requests.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new lending service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// ListItems returns catalog items matching the filter.
func (s *Service) ListItems(filter storage.ItemFilter) ([]models.Item, error) {
	return s.Storage.ListItems(filter)
}

// GetItem returns one catalog item.
func (s *Service) GetItem(itemID string) (*models.Item, error) {
	item, err := s.Storage.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// CreateItem lists a new item in the catalog for the given owner.
func (s *Service) CreateItem(ownerID, ownerName string, item *models.Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return ErrInvalidItem
	}
	item.OwnerID = ownerID
	item.OwnerName = ownerName
	item.Availability = true
	return s.Storage.SaveItem(item)
}

// ItemsByOwner returns the caller's own listings.
func (s *Service) ItemsByOwner(ownerID string) ([]models.Item, error) {
	return s.Storage.ItemsByOwner(ownerID)
}

// SetAvailability lets an owner flip an item's lent-out flag by hand.
func (s *Service) SetAvailability(callerID, itemID string, available bool) error {
	item, err := s.Storage.GetItemByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.OwnerID != callerID {
		return ErrForbidden
	}
	return s.Storage.SetItemAvailability(itemID, available)
}

// CreateRequest files a pending borrow request against an item. The item
// name and owner are denormalized onto the request at creation.
func (s *Service) CreateRequest(borrowerID, borrowerName, itemID, note string) (*models.BorrowRequest, error) {
	item, err := s.Storage.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	req := &models.BorrowRequest{
		ItemID:       item.ID,
		ItemName:     item.Name,
		BorrowerID:   borrowerID,
		BorrowerName: borrowerName,
		OwnerID:      item.OwnerID,
		Status:       models.RequestPending,
		Message:      strings.TrimSpace(note),
	}
	if err := s.Storage.SaveBorrowRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// RequestsByBorrower returns the requests the caller has made.
func (s *Service) RequestsByBorrower(borrowerID string) ([]models.BorrowRequest, error) {
	return s.Storage.RequestsByBorrower(borrowerID)
}

// RequestsByOwner returns the requests against the caller's items.
func (s *Service) RequestsByOwner(ownerID string) ([]models.BorrowRequest, error) {
	return s.Storage.RequestsByOwner(ownerID)
}

// UpdateRequestStatus moves a request through its lifecycle. Only the item
// owner decides pending requests; either party can record a return.
// Approving lends the item out; returning restores its availability.
func (s *Service) UpdateRequestStatus(callerID, requestID, status string) (*models.BorrowRequest, error) {
	req, err := s.Storage.GetBorrowRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}

	switch status {
	case models.RequestApproved, models.RequestDeclined:
		if req.OwnerID != callerID {
			return nil, ErrForbidden
		}
		if req.Status != models.RequestPending {
			return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, req.Status, status)
		}
	case models.RequestReturned:
		if req.OwnerID != callerID && req.BorrowerID != callerID {
			return nil, ErrForbidden
		}
		if req.Status != models.RequestApproved {
			return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, req.Status, status)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadTransition, status)
	}

	req.Status = status
	if err := s.Storage.SaveBorrowRequest(req); err != nil {
		return nil, err
	}

	// Availability follows the request lifecycle.
	switch status {
	case models.RequestApproved:
		err = s.Storage.SetItemAvailability(req.ItemID, false)
	case models.RequestReturned:
		err = s.Storage.SetItemAvailability(req.ItemID, true)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ProfileStats summarizes a user's lending activity for the profile page.
type ProfileStats struct {
	ItemsListed      int   `json:"itemsListed"`
	RequestsMade     int   `json:"requestsMade"`
	RequestsReceived int   `json:"requestsReceived"`
	UnreadMessages   int64 `json:"unreadMessages"`
}

// Stats computes the profile counters for one user.
func (s *Service) Stats(userID string) (*ProfileStats, error) {
	items, err := s.Storage.ItemsByOwner(userID)
	if err != nil {
		return nil, err
	}
	made, err := s.Storage.RequestsByBorrower(userID)
	if err != nil {
		return nil, err
	}
	received, err := s.Storage.RequestsByOwner(userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.Storage.CountUnreadTotal(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileStats{
		ItemsListed:      len(items),
		RequestsMade:     len(made),
		RequestsReceived: len(received),
		UnreadMessages:   unread,
	}, nil
}
