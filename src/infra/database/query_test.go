package database

import (
	"strconv"
	"strings"
	"testing"

	"github.com/contre95/songbook/src/songbook"
)

func TestSelectSongsBindsEveryValue(t *testing.T) {
	injection := "x' OR '1'='1"
	q := songbook.Query{
		Projection: songbook.Projection{"id", "title"},
		Filter: songbook.Filter{
			SongIDs:    []int64{1, 3},
			Artists:    []string{"Bob", injection},
			Equalities: []songbook.Equality{{Field: "album", Value: "Greatest Hits"}},
		},
	}
	built, err := selectSongs(q)
	if err != nil {
		t.Fatalf("selectSongs: %v", err)
	}
	sql, args, err := SQLite.render(built)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.HasPrefix(sql, "SELECT id, title FROM songs WHERE ") {
		t.Errorf("unexpected statement head: %s", sql)
	}
	for _, clause := range []string{"id IN (", "artist IN (", "album = ?", " AND "} {
		if !strings.Contains(sql, clause) {
			t.Errorf("expected %q in %s", clause, sql)
		}
	}
	if got := strings.Count(sql, "?"); got != len(args) || got != 5 {
		t.Errorf("expected 5 placeholders and args, got %d placeholders and %d args", got, len(args))
	}
	for _, value := range []string{"Bob", injection, "Greatest Hits"} {
		if strings.Contains(sql, value) {
			t.Errorf("value %q was interpolated into %s", value, sql)
		}
	}
	if args[2] != "Bob" || args[3] != injection || args[4] != "Greatest Hits" {
		t.Errorf("unexpected argument order %v", args)
	}
}

func TestSelectSongsWithoutFilterHasNoWhere(t *testing.T) {
	built, err := selectSongs(songbook.Query{Projection: songbook.AllFields()})
	if err != nil {
		t.Fatalf("selectSongs: %v", err)
	}
	sql, args, err := SQLite.render(built)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(sql, "WHERE") || len(args) != 0 {
		t.Errorf("expected no predicate, got %q with %v", sql, args)
	}
	if !strings.Contains(sql, strings.Join(songbook.Fields(), ", ")) {
		t.Errorf("expected every field in allow-list order, got %s", sql)
	}
}

func TestPlaceholderCountMatchesValues(t *testing.T) {
	for n := 1; n <= 25; n++ {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		built, err := selectSongs(songbook.Query{Projection: songbook.Projection{"id"}, Filter: songbook.Filter{SongIDs: ids}})
		if err != nil {
			t.Fatalf("selectSongs: %v", err)
		}
		sql, args, err := SQLite.render(built)
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if strings.Count(sql, "?") != n || len(args) != n {
			t.Fatalf("n=%d: got %d placeholders, %d args in %s", n, strings.Count(sql, "?"), len(args), sql)
		}
	}
}

func TestPostgresPlaceholdersAreNumbered(t *testing.T) {
	built, err := selectSongs(songbook.Query{
		Projection: songbook.Projection{"id"},
		Filter: songbook.Filter{
			Artists:    []string{"Ann", "Bob"},
			Equalities: []songbook.Equality{{Field: "bpm", Value: "120"}},
		},
	})
	if err != nil {
		t.Fatalf("selectSongs: %v", err)
	}
	sql, args, err := Postgres.render(built)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(sql, "?") {
		t.Errorf("unexpected ? placeholder in %s", sql)
	}
	for i := 1; i <= 3; i++ {
		if !strings.Contains(sql, "$"+strconv.Itoa(i)) {
			t.Errorf("missing $%d in %s", i, sql)
		}
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
}

func TestSelectSongsRejectsUnknownIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		query songbook.Query
	}{
		{"empty projection", songbook.Query{}},
		{"projection", songbook.Query{Projection: songbook.Projection{"id", "password"}}},
		{"equality", songbook.Query{
			Projection: songbook.Projection{"id"},
			Filter:     songbook.Filter{Equalities: []songbook.Equality{{Field: "1=1 OR id", Value: "x"}}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := selectSongs(tc.query); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCountByArtist(t *testing.T) {
	sql, args, err := SQLite.render(countByArtist([]string{"queen", "bob"}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(sql, "WHERE LOWER(artist) IN (") || !strings.HasSuffix(strings.TrimSpace(sql), "GROUP BY artist") {
		t.Errorf("unexpected statement %s", sql)
	}
	if len(args) != 2 || strings.Count(sql, "?") != 2 {
		t.Errorf("expected 2 bound names, got %v in %s", args, sql)
	}

	sql, args, err = SQLite.render(countByArtist(nil))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(sql, "WHERE") || len(args) != 0 {
		t.Errorf("expected whole-table grouping, got %s %v", sql, args)
	}
}

func TestDialectFor(t *testing.T) {
	if d, err := DialectFor("sqlite3"); err != nil || d != SQLite {
		t.Errorf("sqlite3: got %v, %v", d, err)
	}
	if d, err := DialectFor("pgx"); err != nil || d != Postgres {
		t.Errorf("pgx: got %v, %v", d, err)
	}
	if _, err := DialectFor("mysql"); err == nil {
		t.Error("expected mysql to be rejected")
	}
}
