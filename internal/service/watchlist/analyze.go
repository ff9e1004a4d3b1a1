package watchlist

import (
	"errors"

	"github.com/heartmarshall/watchlist-backend/internal/csvimport"
	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

// analysis is the read-only part of an import shared with the preview.
type analysis struct {
	doc        *csvimport.Document
	source     csvimport.Source
	mapping    csvimport.Mapping
	validation csvimport.ValidationResult
}

// analyze parses, maps, and validates a CSV file. A file that cannot be
// parsed returns a *domain.ValidationError on field "file".
func (s *Service) analyze(data []byte) (*analysis, error) {
	doc, err := csvimport.Parse(data)
	if err != nil {
		var perr *csvimport.ParseError
		if errors.As(err, &perr) {
			return nil, domain.NewValidationError("file", perr.Reason)
		}
		return nil, err
	}

	source, mapping := csvimport.DetectAndMap(doc)
	validation := csvimport.Validate(doc, mapping, csvimport.ValidateOptions{
		MaxRows:              s.cfg.ImportMaxRows,
		MaxMissingTitleRatio: s.cfg.MaxMissingTitleRatio,
	})

	return &analysis{
		doc:        doc,
		source:     source,
		mapping:    mapping,
		validation: validation,
	}, nil
}

// validationError turns the file-level errors of a validation result into
// one field error per message.
func validationError(v csvimport.ValidationResult) error {
	errs := make([]domain.FieldError, 0, len(v.Errors))
	for _, msg := range v.Errors {
		errs = append(errs, domain.FieldError{Field: "file", Message: msg})
	}
	return domain.NewValidationErrors(errs)
}
