package storage

import (
	"database/sql"
	stderrors "errors"

	"github.com/julianstephens/streaks/internal/errors"
)

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isNoRows(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}

// requireRow turns a zero-rows-affected result into a ValidationError with
// the given message. Used after UPDATE/DELETE targeting a single row.
func requireRow(result sql.Result, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.StorageIO("rows affected", err)
	}
	if rows == 0 {
		return errors.Validationf("%s", msg)
	}
	return nil
}
