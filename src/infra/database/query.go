package database

import (
	"fmt"
	"strings"

	"github.com/contre95/songbook/src/songbook"
	"github.com/nullism/bqb"
)

// Dialect decides how placeholders are rendered.
type Dialect int

const (
	// SQLite renders `?` placeholders.
	SQLite Dialect = iota
	// Postgres renders `$1..$n` placeholders.
	Postgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported driver %q", driver)
	}
}

func (d Dialect) render(q *bqb.Query) (string, []any, error) {
	if d == Postgres {
		return q.ToPgsql()
	}
	return q.ToSql()
}

// selectSongs builds the projection query. Only allow-listed identifiers reach
// the statement text; every value is a parameter.
func selectSongs(q songbook.Query) (*bqb.Query, error) {
	if q.Projection.Empty() {
		return nil, fmt.Errorf("empty projection")
	}
	for _, field := range q.Projection {
		if !songbook.IsField(field) {
			return nil, fmt.Errorf("field %q is not allow-listed", field)
		}
	}

	where := bqb.Optional("WHERE")
	if len(q.Filter.SongIDs) > 0 {
		ids := make([]int, len(q.Filter.SongIDs))
		for i, id := range q.Filter.SongIDs {
			ids[i] = int(id)
		}
		where.And("id IN (?)", ids)
	}
	if len(q.Filter.Artists) > 0 {
		where.And("artist IN (?)", q.Filter.Artists)
	}
	for _, eq := range q.Filter.Equalities {
		if !songbook.IsField(eq.Field) {
			return nil, fmt.Errorf("filter field %q is not allow-listed", eq.Field)
		}
		where.And(eq.Field+" = ?", eq.Value)
	}

	columns := bqb.New(strings.Join(q.Projection, ", "))
	return bqb.New("SELECT ? FROM "+songbook.Table+" ?", columns, where), nil
}

// countByArtist groups by the stored artist value. The filter compares
// lowercased values, so differently cased rows still form separate groups.
func countByArtist(artists []string) *bqb.Query {
	where := bqb.Optional("WHERE")
	if len(artists) > 0 {
		where.And("LOWER(artist) IN (?)", artists)
	}
	return bqb.New("SELECT artist, COUNT(*) AS song_count FROM "+songbook.Table+" ? GROUP BY artist", where)
}

func countDistinctArtists() *bqb.Query {
	return bqb.New("SELECT COUNT(DISTINCT artist) FROM " + songbook.Table)
}
