package errs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var pgDetailRegexp = regexp.MustCompile(`\([^()]+\)`)

type DBError struct {
	Err error
}

func (e *DBError) Error() string {
	return e.Err.Error()
}

func (e *DBError) Unwrap() error {
	return e.Err
}

func NewDBError(err error) *DBError {
	return &DBError{Err: err}
}

// ConvertError converts driver constraint errors into *DBError.
// Other errors are returned as is.
func ConvertError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		matches := pgDetailRegexp.FindAllString(pgErr.Detail, -1)
		var strs []string
		for i := 0; i+1 < len(matches); i = i + 2 {
			strs = append(strs, fmt.Sprintf("%s=%s", matches[i], matches[i+1]))
		}
		return NewDBError(errors.New("unique constraint violation: " + strings.Join(strs, ", ")))
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			// "UNIQUE constraint failed: channels.id"
			msg := liteErr.Error()
			if i := strings.Index(msg, ": "); i >= 0 {
				msg = msg[i+2:]
			}
			return NewDBError(errors.New("unique constraint violation: " + msg))
		case sqlite3.ErrConstraintForeignKey:
			return NewDBError(errors.New("foreign key constraint violation"))
		}
	}

	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return NewDBError(errors.New("foreign key constraint violation"))
	}

	return err
}
