package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/notegen/internal/domain/entities"
)

// TemplateRepository implements the template registry interface using GORM
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{
		db: db,
	}
}

// FindByID finds a template by ID
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entities.Template, error) {
	var template entities.Template
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("template %s not found", id)
		}
		return nil, fmt.Errorf("failed to find template by ID: %w", err)
	}
	return &template, nil
}

// List returns all templates ordered by name
func (r *TemplateRepository) List(ctx context.Context) ([]entities.Template, error) {
	var templates []entities.Template
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// FolderRepository implements the folder registry interface using GORM
type FolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{
		db: db,
	}
}

// List returns all folders ordered by name
func (r *FolderRepository) List(ctx context.Context) ([]entities.Folder, error) {
	var folders []entities.Folder
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}
