package customer

import (
	"context"
	"errors"

	"github.com/agency/backend/internal/domain/customer"
	"github.com/agency/backend/internal/domain/shared"
)

// ImportRow is one customer read from an upload
type ImportRow struct {
	Line    int
	Request CustomerRequest
}

// ImportError explains why a row was not imported
type ImportError struct {
	Line    int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult summarizes an import
type ImportResult struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors"`
}

// Import creates a customer per row. A rejected row does not stop the
// import; its reason is reported instead.
func (s *CustomerService) Import(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	result := &ImportResult{Total: len(rows), Errors: []ImportError{}}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		req := row.Request
		if req.Source == "" {
			req.Source = customer.SourceImport
		}
		if _, err := s.Create(ctx, req); err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) {
				return result, err
			}
			result.Failed++
			result.Errors = append(result.Errors, ImportError{Line: row.Line, Code: de.Code, Message: de.Message})
			continue
		}
		result.Created++
	}
	return result, nil
}
