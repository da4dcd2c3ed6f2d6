package repositories

import (
	"context"

	"github.com/johnquangdev/notegen/internal/domain/entities"
)

// TemplateRegistry is a read-only lookup of note templates used to build
// prompts. This layer never mutates templates.
type TemplateRegistry interface {
	FindByID(ctx context.Context, id string) (*entities.Template, error)
	List(ctx context.Context) ([]entities.Template, error)
}

// FolderRegistry is a read-only lookup of folders used to build
// folder-suggestion prompts.
type FolderRegistry interface {
	List(ctx context.Context) ([]entities.Folder, error)
}
