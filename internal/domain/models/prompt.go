package models

import "time"

// PromptSections is the structured content of a prompt document. The section
// order is fixed by the builder UI.
type PromptSections struct {
	Instruction      string `json:"instruction"`
	Context          string `json:"context"`
	TargetAudience   string `json:"target_audience"`
	ValueProposition string `json:"value_proposition"`
	Personality      string `json:"personality"`
	DetailLevel      string `json:"detail_level"`
	AdditionalData   string `json:"additional_data"`
	OutputFormat     string `json:"output_format"`
}

type Prompt struct {
	ID        string         `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	Objective string         `json:"objective" db:"objective"`
	Content   PromptSections `json:"content" db:"content"`
	// BaseInput is the originating idea the sections were built from.
	BaseInput   string     `json:"base_input" db:"base_input"`
	FolderID    *string    `json:"folder_id,omitempty" db:"folder_id"`
	CreatedByID string     `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// CreatedByName is the creator's display name, joined in for listings.
	CreatedByName string `json:"created_by_name,omitempty"`
}

// PromptVersion is one immutable snapshot in a prompt's append-only history.
// Version rows are never updated or deleted while the parent prompt lives.
type PromptVersion struct {
	ID          string         `json:"id" db:"id"`
	PromptID    string         `json:"prompt_id" db:"prompt_id"`
	Content     PromptSections `json:"content" db:"content"`
	ChangeNote  string         `json:"change_note" db:"change_note"`
	CreatedByID string         `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
