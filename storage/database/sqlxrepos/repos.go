// Package sqlxrepos implements the domain repositories on postgres with sqlx.
package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/startsmart/property/core"
)

// trapNoRowsErr maps psql "no rows" err to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// orderBy renders orderings whose columns are in allowed; fallback is used when none remains.
func orderBy(ordering []core.DBOrdering, allowed map[string]string, fallback string) string {
	ords := core.FilterOrderings(ordering, allowed)
	if len(ords) == 0 {
		return " ORDER BY " + fallback
	}
	parts := make([]string, 0, len(ords))
	for _, ord := range ords {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
