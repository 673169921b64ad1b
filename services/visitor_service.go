// services/visitor_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"visitor-backend/models"
	"visitor-backend/utils"

	"gorm.io/gorm"
)

// VisitorService is the visitor directory: it maps a contact number to a
// durable visitor identity.
type VisitorService struct {
	DB *gorm.DB
}

func NewVisitorService(db *gorm.DB) *VisitorService {
	return &VisitorService{DB: db}
}

// ResolveVisitor returns the visitor_id for a contact number, inserting a new
// Visitor when the number has never been seen. Dedup is exact string match on
// contact_no. For a returning visitor the declared fields are NOT merged into
// the stored row — they only flow into the pass snapshot.
func (s *VisitorService) ResolveVisitor(contactNo string, declared models.Visitor) (string, bool, error) {
	contactNo = strings.TrimSpace(contactNo)
	if contactNo == "" {
		return "", false, fmt.Errorf("validation: contact number is required")
	}

	var existing models.Visitor
	err := s.DB.Where("contact_no = ?", contactNo).First(&existing).Error
	if err == nil {
		return existing.VisitorID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, fmt.Errorf("failed to look up visitor by contact %s: %w", contactNo, err)
	}

	declared.VisitorID = utils.NewVisitorID()
	declared.ContactNo = contactNo
	if err := s.DB.Create(&declared).Error; err != nil {
		return "", false, fmt.Errorf("failed to create visitor: %w", err)
	}
	return declared.VisitorID, true, nil
}

// FindByContact backs the returning-visitor lookup on the pass form.
func (s *VisitorService) FindByContact(contactNo string) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.Where("contact_no = ?", strings.TrimSpace(contactNo)).First(&visitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, fmt.Errorf("failed to fetch visitor: %w", err)
	}
	return &visitor, nil
}
