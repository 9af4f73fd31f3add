package store

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour behind a Store
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Rebind rewrites $N placeholders into the dialect's form. Postgres is left
// as written; sqlite gets ?N, which binds by ordinal and tolerates reuse.
func (d Dialect) Rebind(sql string) string {
	if d != DialectSQLite || !strings.Contains(sql, "$") {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql))
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c == '\'' {
			inQuote = !inQuote
		}
		if c != '$' || inQuote {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}
		n, _ := strconv.Atoi(sql[i+1 : j])
		b.WriteByte('?')
		b.WriteString(strconv.Itoa(n))
		i = j - 1
	}
	return b.String()
}
