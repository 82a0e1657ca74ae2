package postgres

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/riskibarqy/nwsl-stats/internal/platform/storeerr"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNotNullViolation    = "23502"
	pqAdminShutdown       = "57P01"
	pqCannotConnectNow    = "57P03"
	pqTooManyConnections  = "53300"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// classify marks err with the storeerr class the use cases act on.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == pqUniqueViolation:
			return storeerr.Mark(err, storeerr.ErrDuplicateKey)
		case code == pqForeignKeyViolation:
			return storeerr.Mark(err, storeerr.ErrForeignKey)
		case code == pqCheckViolation, code == pqNotNullViolation, pqErr.Code.Class() == "23":
			return storeerr.Mark(err, storeerr.ErrConstraint)
		case pqErr.Code.Class() == "08", code == pqAdminShutdown, code == pqCannotConnectNow, code == pqTooManyConnections:
			return storeerr.Mark(err, storeerr.ErrUnavailable)
		}
		return err
	}

	if isConnectionError(err) {
		return storeerr.Mark(err, storeerr.ErrUnavailable)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "connection refused") || strings.Contains(text, "broken pipe")
}

// wrap prefixes err with what the repository was doing and classifies it.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return classify(fmt.Errorf(format+": %w", append(args, err)...))
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	v := value
	return &v
}

func nullableInt(value *int) *int64 {
	if value == nil {
		return nil
	}
	v := int64(*value)
	return &v
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func markf(class error, format string, args ...any) error {
	return storeerr.Mark(fmt.Errorf(format, args...), class)
}
