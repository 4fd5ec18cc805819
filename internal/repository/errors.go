// Package repository implements MySQL persistence for locations,
// schedules, daily inventory, reservations, users and refresh tokens.
// Repositories return the typed errors from the booking package so the
// engine and handlers never see raw driver errors for expected
// outcomes.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error code for a unique key
// violation.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a MySQL duplicate-key error.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
