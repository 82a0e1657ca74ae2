// Package storeerr holds the store failure classes shared by every repository
// implementation, so use cases can react to them without importing a driver.
package storeerr

import "github.com/cockroachdb/errors"

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("foreign key violation")
	ErrConstraint   = errors.New("constraint violation")
	ErrUnavailable  = errors.New("store unavailable")
)

// Mark tags err with class while keeping its message and chain intact.
func Mark(err error, class error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, class)
}

func IsDuplicateKey(err error) bool { return errors.Is(err, ErrDuplicateKey) }

func IsForeignKey(err error) bool { return errors.Is(err, ErrForeignKey) }

func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsIntegrity reports any key or constraint violation.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrForeignKey) || errors.Is(err, ErrConstraint)
}
