// Package repo stores profiles and rating snapshots in a single two-part-key table
package repo

import (
	"context"
	"embed"
	"encoding/json"
	"strings"
	"time"

	"ladderbot/internal/modkit/repokit"
	perr "ladderbot/internal/platform/errors"
	"ladderbot/internal/platform/store"
	"ladderbot/internal/services/profiles/domain"
)

//go:embed schema/*.sql
var schemaFS embed.FS

const (
	profilePrefix = "profile#"
	infoSK        = "profile#info"
	snapPrefix    = "dupr#"
	// snapEnd sorts right after every dupr# key since '$' follows '#'
	snapEnd = "dupr$"

	// snapLayout is fixed width so sort key order is chronological order
	snapLayout = "2006-01-02T15:04:05.000000000Z"
)

// Repo is the table surface the profile service uses
type Repo interface {
	Migrate(ctx context.Context) error

	GetProfile(ctx context.Context, memberID string) (domain.Profile, bool, error)
	PutProfile(ctx context.Context, p domain.Profile) error

	LatestSnapshot(ctx context.Context, memberID string) (domain.Snapshot, bool, error)
	InsertSnapshot(ctx context.Context, s domain.Snapshot) error

	// ScanProfiles returns up to limit profiles with pk strictly after the cursor.
	// next is empty once the table is exhausted.
	ScanProfiles(ctx context.Context, cursor string, limit int) (page []domain.ProfileRef, next string, err error)
}

type (
	// SQL is the dialect-aware implementation for postgres and sqlite
	SQL struct {
		Dialect store.Dialect
		Table   string
	}
	queries struct {
		q     repokit.Queryer
		d     store.Dialect
		table string
	}
)

// New returns a binder for the given dialect and table
func New(d store.Dialect, table string) repokit.Binder[Repo] {
	if table == "" {
		table = "tvp"
	}
	return SQL{Dialect: d, Table: table}
}

// Bind attaches a Queryer
func (s SQL) Bind(q repokit.Queryer) Repo { return &queries{q: q, d: s.Dialect, table: s.Table} }

// sql expands the table name and rebinds placeholders for the dialect
func (r *queries) sql(s string) string {
	return r.d.Rebind(strings.ReplaceAll(s, "{{table}}", r.table))
}

// PK is the partition key for a member
func PK(memberID string) string { return profilePrefix + memberID }

// SnapshotSK is the sort key for a snapshot taken at t
func SnapshotSK(t time.Time) string { return snapPrefix + t.UTC().Format(snapLayout) }

// Migrate applies the embedded schema for the dialect, statement by statement
func (r *queries) Migrate(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema/" + string(r.d) + ".sql")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeValidation, "no schema for dialect %q", r.d)
	}
	for stmt := range strings.SplitSeq(string(b), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.q.Exec(ctx, r.sql(stmt)); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "apply schema")
		}
	}
	return nil
}

// GetProfile reads the profile#info item of a member
func (r *queries) GetProfile(ctx context.Context, memberID string) (domain.Profile, bool, error) {
	const sql = `SELECT doc FROM {{table}} WHERE pk = $1 AND sk = $2`

	var p domain.Profile
	ok, err := r.getDoc(ctx, &p, sql, PK(memberID), infoSK)
	return p, ok, err
}

// PutProfile writes the profile#info item, replacing any previous document
func (r *queries) PutProfile(ctx context.Context, p domain.Profile) error {
	const sql = `
		INSERT INTO {{table}} (pk, sk, doc) VALUES ($1, $2, $3)
		ON CONFLICT (pk, sk) DO UPDATE SET doc = EXCLUDED.doc
	`
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, r.sql(sql), PK(p.MemberID), infoSK, string(doc))
	return err
}

// LatestSnapshot is a reverse prefix query with limit 1
func (r *queries) LatestSnapshot(ctx context.Context, memberID string) (domain.Snapshot, bool, error) {
	const sql = `
		SELECT doc FROM {{table}}
		WHERE pk = $1 AND sk >= $2 AND sk < $3
		ORDER BY sk DESC
		LIMIT 1
	`
	var s domain.Snapshot
	ok, err := r.getDoc(ctx, &s, sql, PK(memberID), snapPrefix, snapEnd)
	return s, ok, err
}

// InsertSnapshot appends a snapshot; snapshots are never overwritten
func (r *queries) InsertSnapshot(ctx context.Context, s domain.Snapshot) error {
	const sql = `INSERT INTO {{table}} (pk, sk, doc) VALUES ($1, $2, $3)`

	s.ObservedAt = s.ObservedAt.UTC()
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return store.ExecOne(ctx, r.q, r.sql(sql), PK(s.MemberID), SnapshotSK(s.ObservedAt), string(doc))
}

// ScanProfiles pages profile#info items in pk order
func (r *queries) ScanProfiles(ctx context.Context, cursor string, limit int) ([]domain.ProfileRef, string, error) {
	const sql = `
		SELECT pk, doc FROM {{table}}
		WHERE sk = $1 AND pk > $2
		ORDER BY pk
		LIMIT $3
	`
	type row struct {
		pk  string
		doc string
	}
	rows, err := store.Many(ctx, r.q, func(rw store.Row) (row, error) {
		var x row
		return x, rw.Scan(&x.pk, &x.doc)
	}, r.sql(sql), infoSK, cursor, limit)
	if err != nil {
		return nil, "", err
	}

	out := make([]domain.ProfileRef, 0, len(rows))
	for _, x := range rows {
		var p domain.Profile
		if err := json.Unmarshal([]byte(x.doc), &p); err != nil {
			return nil, "", perr.Wrapf(err, perr.ErrorCodeDB, "decode profile %s", x.pk)
		}
		if p.MemberID == "" {
			p.MemberID = strings.TrimPrefix(x.pk, profilePrefix)
		}
		out = append(out, domain.ProfileRef{
			MemberID:         p.MemberID,
			DisplayName:      p.DisplayName,
			ExternalRatingID: p.ExternalRatingID,
		})
	}

	next := ""
	if len(rows) == limit && limit > 0 {
		next = rows[len(rows)-1].pk
	}
	return out, next, nil
}

func (r *queries) getDoc(ctx context.Context, into any, sql string, args ...any) (bool, error) {
	var doc string
	if err := r.q.QueryRow(ctx, r.sql(sql), args...).Scan(&doc); err != nil {
		if store.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(doc), into); err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeDB, "decode item")
	}
	return true, nil
}
