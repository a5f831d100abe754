package store

import (
	"context"

	"verdra-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Seed inserts the initial project catalog when the projects table is empty.
// Same two listings the Express MemStorage seeded, fixed ids included.
func (s *Store) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	projects := []models.Project{
		{
			ID:          1,
			Name:        "Amazon Rainforest Conservation",
			Description: "Protecting vital rainforest ecosystems",
			Location:    "Brazil",
			Credits:     decimal.NewFromInt(10000),
			Price:       decimal.NewFromInt(25),
			ImageURL:    "https://images.unsplash.com/photo-1465146344425-f00d5f5c8f07",
		},
		{
			ID:          2,
			Name:        "Wind Farm Initiative",
			Description: "Clean energy generation project",
			Location:    "Texas, USA",
			Credits:     decimal.NewFromInt(5000),
			Price:       decimal.NewFromInt(20),
			ImageURL:    "https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05",
		},
	}
	return s.db.WithContext(ctx).Create(&projects).Error
}
