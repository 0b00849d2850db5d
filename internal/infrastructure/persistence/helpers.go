package persistence

import (
	"errors"
	"strings"
	"time"

	"github.com/agency/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound to the domain error
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// referenced maps a foreign key violation on delete to a conflict
func referenced(err error, what string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.NewDomainError("CONFLICT", what+" is still referenced by other records")
	}
	return err
}

// paginate applies offset/limit from the filter
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern returns a lower-cased LIKE pattern. LOWER(col) LIKE ? works
// on both PostgreSQL and SQLite, unlike ILIKE.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// timeValue extracts a time filter value
func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return t.UTC(), !t.IsZero()
	}
	return time.Time{}, false
}
