package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens an error into the structured fields attached to a
// failed request's log line. Postgres driver errors contribute their
// SQLSTATE and the violated constraint, which is how a settlement rejected
// by the one-success-per-order index shows up in the logs.
func LogFields(err error) map[string]any {
	if err == nil {
		return nil
	}

	fields := map[string]any{"error": err.Error()}
	if typed := As(err); typed != nil {
		fields["error_code"] = string(typed.Code())
	}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	if len(chain) > 1 {
		fields["error_chain"] = chain
	}

	for key, value := range databaseFields(err) {
		fields[key] = value
	}
	return fields
}

func databaseFields(err error) map[string]any {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return map[string]any{
			"db_sqlstate":   pgxErr.Code,
			"db_constraint": pgxErr.ConstraintName,
			"db_table":      pgxErr.TableName,
			"db_detail":     pgxErr.Detail,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return map[string]any{
			"db_sqlstate":   string(pqErr.Code),
			"db_constraint": pqErr.Constraint,
			"db_table":      pqErr.Table,
			"db_detail":     pqErr.Detail,
		}
	}

	return nil
}
