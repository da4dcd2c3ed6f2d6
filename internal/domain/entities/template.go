package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Template describes a note layout: an ordered set of section headings with
// per-section guidance. Read-only from this layer's point of view.
type Template struct {
	ID          string         `json:"id" gorm:"primary_key"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	Sections    datatypes.JSON `json:"sections" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TemplateSection is the decoded shape of one entry in Template.Sections.
type TemplateSection struct {
	Heading     string `json:"heading"`
	Instruction string `json:"instruction,omitempty"`
}

// Folder is a destination a note can be filed into. Read-only lookup used to
// build folder-suggestion prompts.
type Folder struct {
	ID          string    `json:"id" gorm:"primary_key"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
