package storage

import (
	"errors"
	"log"

	"lendly/backend/internal/models"

	"gorm.io/gorm"
)

// ItemFilter narrows a catalog listing. Zero values mean "no constraint";
// Limit 0 means no page cap.
type ItemFilter struct {
	Category      string
	AvailableOnly bool
	Search        string
	Offset        int
	Limit         int
}

// SaveItem creates or updates a catalog item.
func (s *Service) SaveItem(item *models.Item) error {
	if err := s.DB.Save(item).Error; err != nil {
		log.Printf("ERROR: Failed to save item %s: %v", item.ID, err)
		return err
	}
	return nil
}

// GetItemByID returns the item, or (nil, nil) when no such item exists.
func (s *Service) GetItemByID(itemID string) (*models.Item, error) {
	var item models.Item
	err := s.DB.First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns catalog items matching the filter, newest first.
func (s *Service) ListItems(filter ItemFilter) ([]models.Item, error) {
	q := s.DB.Model(&models.Item{}).Order("created_at DESC")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		q = q.Where("availability = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		log.Printf("ERROR: Failed to list items: %v", err)
		return nil, err
	}
	return items, nil
}

// ItemsByOwner returns every item a user has listed, newest first.
func (s *Service) ItemsByOwner(ownerID string) ([]models.Item, error) {
	var items []models.Item
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetItemAvailability flips the lent-out flag on an item.
func (s *Service) SetItemAvailability(itemID string, available bool) error {
	return s.DB.Model(&models.Item{}).
		Where("id = ?", itemID).
		Update("availability", available).Error
}

// SaveBorrowRequest creates or updates a borrow request.
func (s *Service) SaveBorrowRequest(req *models.BorrowRequest) error {
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	if err := s.DB.Save(req).Error; err != nil {
		log.Printf("ERROR: Failed to save borrow request for item %s: %v", req.ItemID, err)
		return err
	}
	return nil
}

// GetBorrowRequestByID returns the request, or (nil, nil) when absent.
func (s *Service) GetBorrowRequestByID(requestID string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	err := s.DB.First(&req, "id = ?", requestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// RequestsByBorrower returns the requests a user has made, newest first.
func (s *Service) RequestsByBorrower(borrowerID string) ([]models.BorrowRequest, error) {
	var requests []models.BorrowRequest
	err := s.DB.Where("borrower_id = ?", borrowerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// RequestsByOwner returns the requests against a user's items, newest first.
func (s *Service) RequestsByOwner(ownerID string) ([]models.BorrowRequest, error) {
	var requests []models.BorrowRequest
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
