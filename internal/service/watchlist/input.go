package watchlist

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

const (
	maxNoteLength  = 2000
	maxTitleLength = 500
	maxSearchLen   = 200
)

// ImportInput holds the parameters for a CSV import.
type ImportInput struct {
	Data            []byte
	DuplicatePolicy domain.DuplicatePolicy
}

// Validate checks all fields and collects all errors.
func (i ImportInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Data) == 0 {
		errs = append(errs, domain.FieldError{Field: "file", Message: "required"})
	}
	if !i.DuplicatePolicy.IsValid() {
		errs = append(errs, domain.FieldError{Field: "duplicateAction", Message: "must be skip or update"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PreviewInput holds the parameters for an import dry run.
type PreviewInput struct {
	Data []byte
}

// Validate checks all fields and collects all errors.
func (i PreviewInput) Validate() error {
	if len(i.Data) == 0 {
		return domain.NewValidationError("file", "required")
	}
	return nil
}

// AddEntryInput holds the parameters for adding a single catalog item.
type AddEntryInput struct {
	ExternalID   int
	MediaType    domain.MediaType
	Title        string
	PosterPath   *string
	BackdropPath *string
	ReleaseDate  *time.Time // first air date for series
	Note         *string
}

// Validate checks all fields and collects all errors.
func (i AddEntryInput) Validate() error {
	var errs []domain.FieldError

	if i.ExternalID <= 0 {
		errs = append(errs, domain.FieldError{Field: "externalId", Message: "must be positive"})
	}
	if !i.MediaType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mediaType", Message: "must be movie or tv"})
	}
	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 500 characters"})
	}
	if i.Note != nil && len(*i.Note) > maxNoteLength {
		errs = append(errs, domain.FieldError{Field: "note", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateEntryInput holds the parameters for editing an entry.
type UpdateEntryInput struct {
	EntryID uuid.UUID
	Order   *int    // nil = don't change; 0 = remove from the ordered list
	Note    *string // nil = don't change; ptr("") = clear
}

// Validate checks all fields and collects all errors.
func (i UpdateEntryInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "itemId", Message: "required"})
	}
	if i.Order == nil && i.Note == nil {
		errs = append(errs, domain.FieldError{Field: "updates", Message: "at least one field must be provided"})
	}
	if i.Order != nil && *i.Order < 0 {
		errs = append(errs, domain.FieldError{Field: "order", Message: "must be >= 0"})
	}
	if i.Note != nil && len(*i.Note) > maxNoteLength {
		errs = append(errs, domain.FieldError{Field: "note", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// MoveInput holds a drag-and-drop move as seen by the client.
type MoveInput struct {
	EntryID    uuid.UUID
	FromIndex  int
	ToIndex    int
	VisibleIDs []uuid.UUID
	Sort       domain.ListSort
}

// Validate checks all fields and collects all errors.
func (i MoveInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entryId", Message: "required"})
	}
	if i.FromIndex < 0 {
		errs = append(errs, domain.FieldError{Field: "fromIndex", Message: "must be >= 0"})
	}
	if i.ToIndex < 0 {
		errs = append(errs, domain.FieldError{Field: "toIndex", Message: "must be >= 0"})
	}
	if i.Sort != "" && !i.Sort.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "unknown sort"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RemoveEntryInput holds the parameters for removing an entry.
type RemoveEntryInput struct {
	EntryID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i RemoveEntryInput) Validate() error {
	if i.EntryID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}

// ListInput holds filter and paging parameters for a watchlist view.
type ListInput struct {
	MediaType *domain.MediaType
	Search    *string
	SortBy    domain.ListSort
	SortOrder string
	Limit     int
	Offset    int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.MediaType != nil && !i.MediaType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mediaType", Message: "must be movie or tv"})
	}
	if i.Search != nil && len(*i.Search) > maxSearchLen {
		errs = append(errs, domain.FieldError{Field: "search", Message: "max 200 characters"})
	}
	if i.SortBy != "" && !i.SortBy.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "unknown sort"})
	}
	switch strings.ToUpper(i.SortOrder) {
	case "", "ASC", "DESC":
	default:
		errs = append(errs, domain.FieldError{Field: "order", Message: "must be ASC or DESC"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be >= 0"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StatusInput identifies a catalog item for the "already added" check.
type StatusInput struct {
	ExternalID int
	MediaType  domain.MediaType
}

// Validate checks all fields and collects all errors.
func (i StatusInput) Validate() error {
	var errs []domain.FieldError

	if i.ExternalID <= 0 {
		errs = append(errs, domain.FieldError{Field: "externalId", Message: "must be positive"})
	}
	if !i.MediaType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mediaType", Message: "must be movie or tv"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
