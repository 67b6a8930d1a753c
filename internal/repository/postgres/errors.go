package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Load stages reported by StatementError.
const (
	StageTruncate = "truncate"
	StageInsert   = "insert"
	StageCommit   = "commit"
)

const statementPreviewLen = 120

// ConnectionError means no connection or transaction could be acquired.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "connect to database: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StatementError is a statement that failed inside the load transaction.
type StatementError struct {
	Stage string
	// Seq is the batch position for StageInsert, -1 otherwise.
	Seq       int
	Rows      int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	var b strings.Builder
	switch e.Stage {
	case StageInsert:
		fmt.Fprintf(&b, "insert batch %d (%d rows)", e.Seq, e.Rows)
	default:
		b.WriteString(e.Stage)
	}

	if e.Statement != "" {
		fmt.Fprintf(&b, " [%s]", preview(e.Statement))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		if pgErr.Detail != "" {
			b.WriteString(" detail: " + pgErr.Detail)
		}
		if pgErr.Hint != "" {
			b.WriteString(" hint: " + pgErr.Hint)
		}
	}
	return b.String()
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// SQLState returns the Postgres error code, if the server reported one.
func (e *StatementError) SQLState() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func preview(statement string) string {
	if len(statement) <= statementPreviewLen {
		return statement
	}
	return statement[:statementPreviewLen] + "..."
}
