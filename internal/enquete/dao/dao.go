// DAO layer of the survey service. Holds the Survey aggregate with its
// per-language settings, the dependent entities removed on cascade delete,
// and the lifecycle management of the dynamically named per-survey tables
// (responses, timings, tokens).
package dao

import (
	"errors"

	"github.com/enquete-app/enquete.go/internal/enquete/config"
	"github.com/gofrs/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var Config *config.Config

// GenUUID generates a random UUID for rows keyed by one.
func GenUUID() uuid.UUID {
	u2, _ := uuid.NewV4()
	return u2
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// With TranslateError enabled GORM maps these to ErrDuplicatedKey; the pq
// check covers connections opened without translation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
