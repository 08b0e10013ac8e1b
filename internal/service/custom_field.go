package service

import (
	"context"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
)

// CustomFieldRepository defines the interface for custom field storage
type CustomFieldRepository interface {
	// List returns the fields ordered by position with options sorted by label
	List(ctx context.Context, userID string) ([]*model.CustomField, error)
	Get(ctx context.Context, userID, id string) (*model.CustomField, error)
	GetByLabel(ctx context.Context, userID, label string) (*model.CustomField, error)
	Count(ctx context.Context, userID string) (int, error)
	// Create stores the field and its options atomically
	Create(ctx context.Context, field *model.CustomField, options []string) error
	Update(ctx context.Context, field *model.CustomField) error
	// Delete removes the field with its options and closes the gap in positions
	Delete(ctx context.Context, userID, id string) error
	// SetPositions stores position i for ids[i] atomically
	SetPositions(ctx context.Context, userID string, ids []string) error

	ListOptions(ctx context.Context, fieldID string) ([]model.CustomFieldOption, error)
	GetOption(ctx context.Context, fieldID, id string) (*model.CustomFieldOption, error)
	GetOptionByLabel(ctx context.Context, fieldID, label string) (*model.CustomFieldOption, error)
	CreateOption(ctx context.Context, option *model.CustomFieldOption) error
	UpdateOption(ctx context.Context, option *model.CustomFieldOption) error
	DeleteOption(ctx context.Context, fieldID, id string) error
}

// CustomFieldService manages the custom character fields of a user
type CustomFieldService struct {
	fieldRepo CustomFieldRepository
}

// NewCustomFieldService creates a new custom field service
func NewCustomFieldService(fieldRepo CustomFieldRepository) *CustomFieldService {
	return &CustomFieldService{fieldRepo: fieldRepo}
}

// List returns all custom fields of the user
func (s *CustomFieldService) List(ctx context.Context, userID string) ([]*model.CustomField, error) {
	return s.fieldRepo.List(ctx, userID)
}

// Get returns a custom field of the user
func (s *CustomFieldService) Get(ctx context.Context, userID, id string) (*model.CustomField, error) {
	field, err := s.fieldRepo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, ErrCustomFieldNotFound
	}
	return field, nil
}

// Create adds a custom field at the end of the list
func (s *CustomFieldService) Create(ctx context.Context, userID string, req model.CustomFieldRequest) (*model.CustomField, error) {
	label := strings.TrimSpace(req.Label)
	existing, err := s.fieldRepo.GetByLabel(ctx, userID, label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCustomFieldExists
	}

	count, err := s.fieldRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	field := &model.CustomField{
		UserID:   userID,
		Label:    label,
		Position: count,
	}
	if err := s.fieldRepo.Create(ctx, field, uniqueLabels(req.Options)); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, field.ID)
}

// Update renames a custom field
func (s *CustomFieldService) Update(ctx context.Context, userID, id string, req model.CustomFieldRequest) (*model.CustomField, error) {
	field, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if label != field.Label {
		existing, err := s.fieldRepo.GetByLabel(ctx, userID, label)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != field.ID {
			return nil, ErrCustomFieldExists
		}
	}

	field.Label = label
	if err := s.fieldRepo.Update(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// Delete removes a custom field with its options
func (s *CustomFieldService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.fieldRepo.Delete(ctx, userID, id)
}

// Move places the field at the given position and shifts the fields in
// between. Positions outside the list are clamped.
func (s *CustomFieldService) Move(ctx context.Context, userID, id string, position int) error {
	moved, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	fields, err := s.fieldRepo.List(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.ID != moved.ID {
			ids = append(ids, field.ID)
		}
	}

	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}

	ordered := make([]string, 0, len(fields))
	ordered = append(ordered, ids[:position]...)
	ordered = append(ordered, moved.ID)
	ordered = append(ordered, ids[position:]...)

	return s.fieldRepo.SetPositions(ctx, userID, ordered)
}

// ListOptions returns the options of a field sorted by label
func (s *CustomFieldService) ListOptions(ctx context.Context, userID, fieldID string) ([]model.CustomFieldOption, error) {
	if _, err := s.Get(ctx, userID, fieldID); err != nil {
		return nil, err
	}
	return s.fieldRepo.ListOptions(ctx, fieldID)
}

// CreateOption adds an option to a field
func (s *CustomFieldService) CreateOption(ctx context.Context, userID, fieldID, label string) (*model.CustomFieldOption, error) {
	if _, err := s.Get(ctx, userID, fieldID); err != nil {
		return nil, err
	}

	label = strings.TrimSpace(label)
	existing, err := s.fieldRepo.GetOptionByLabel(ctx, fieldID, label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOptionExists
	}

	option := &model.CustomFieldOption{CustomFieldID: fieldID, Label: label}
	if err := s.fieldRepo.CreateOption(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}

// UpdateOption renames an option
func (s *CustomFieldService) UpdateOption(ctx context.Context, userID, fieldID, id, label string) error {
	if _, err := s.Get(ctx, userID, fieldID); err != nil {
		return err
	}

	option, err := s.fieldRepo.GetOption(ctx, fieldID, id)
	if err != nil {
		return err
	}
	if option == nil {
		return ErrOptionNotFound
	}

	label = strings.TrimSpace(label)
	existing, err := s.fieldRepo.GetOptionByLabel(ctx, fieldID, label)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != option.ID {
		return ErrOptionExists
	}

	option.Label = label
	return s.fieldRepo.UpdateOption(ctx, option)
}

// DeleteOption removes an option
func (s *CustomFieldService) DeleteOption(ctx context.Context, userID, fieldID, id string) error {
	if _, err := s.Get(ctx, userID, fieldID); err != nil {
		return err
	}

	option, err := s.fieldRepo.GetOption(ctx, fieldID, id)
	if err != nil {
		return err
	}
	if option == nil {
		return ErrOptionNotFound
	}
	return s.fieldRepo.DeleteOption(ctx, fieldID, id)
}

func uniqueLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		result = append(result, label)
	}
	return result
}
