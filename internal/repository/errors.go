package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/yusufkecer/vitals-media-backend/internal/domain"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
)

// classify tags MySQL constraint failures with the matching domain error.
func classify(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}
	switch mysqlErr.Number {
	case mysqlDuplicateEntry:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case mysqlNoReferenced:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

func quote(ident string) string {
	return "`" + ident + "`"
}
