package songs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/songbook"
)

// MockCatalog is a mock implementation of songbook.Catalog
type MockCatalog struct {
	songbook.Catalog // Embed interface, will panic if unused methods called
	rows             [][]any
	counts           []songbook.ArtistCount
	total            int64
	err              error

	selectCalls []songbook.Query
	countCalls  [][]string
	totalCalls  int
}

func (m *MockCatalog) Select(ctx context.Context, q songbook.Query) ([][]any, error) {
	m.selectCalls = append(m.selectCalls, q)
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func (m *MockCatalog) CountByArtist(ctx context.Context, artists []string) ([]songbook.ArtistCount, error) {
	m.countCalls = append(m.countCalls, artists)
	if m.err != nil {
		return nil, m.err
	}
	return m.counts, nil
}

func (m *MockCatalog) CountArtists(ctx context.Context) (int64, error) {
	m.totalCalls++
	return m.total, nil
}

func newService(catalog songbook.Catalog, mode string) *Service {
	return NewService(catalog, config.NewManager(&config.Config{Query: config.Query{Mode: mode}}))
}

func TestListProjectsRequestedFieldsInOrder(t *testing.T) {
	catalog := &MockCatalog{rows: [][]any{{int64(1), "A"}, {int64(3), "C"}}}
	service := newService(catalog, config.ModeStrict)

	listing, err := service.List(context.Background(), ListParams{SongIDs: "1,3", Fields: "id,title"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog.selectCalls) != 1 {
		t.Fatalf("expected one Select call, got %d", len(catalog.selectCalls))
	}
	q := catalog.selectCalls[0]
	if !reflect.DeepEqual([]string(q.Projection), []string{"id", "title"}) {
		t.Errorf("unexpected projection %v", q.Projection)
	}
	if !reflect.DeepEqual(q.Filter.SongIDs, []int64{1, 3}) {
		t.Errorf("unexpected song ids %v", q.Filter.SongIDs)
	}
	if len(listing.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listing.Records))
	}
	if v, _ := listing.Records[1].Get("title"); v != "C" {
		t.Errorf("expected second title C, got %v", v)
	}
}

func TestListDefaultsToAllFields(t *testing.T) {
	for _, fields := range []string{"", "all", " all "} {
		catalog := &MockCatalog{}
		service := newService(catalog, config.ModeStrict)
		if _, err := service.List(context.Background(), ListParams{Fields: fields}); err != nil {
			t.Fatalf("fields %q: unexpected error %v", fields, err)
		}
		got := []string(catalog.selectCalls[0].Projection)
		if !reflect.DeepEqual(got, songbook.Fields()) {
			t.Errorf("fields %q: expected every field, got %v", fields, got)
		}
	}
}

func TestListCollapsesRepeatedFields(t *testing.T) {
	catalog := &MockCatalog{rows: [][]any{{int64(1), "A"}}}
	service := newService(catalog, config.ModeStrict)

	listing, err := service.List(context.Background(), ListParams{Fields: "id,id, title,id"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := []string(catalog.selectCalls[0].Projection); !reflect.DeepEqual(got, []string{"id", "title"}) {
		t.Errorf("expected projection [id title], got %v", got)
	}
	if got := listing.Records[0].Fields(); !reflect.DeepEqual(got, []string{"id", "title"}) {
		t.Errorf("expected record keys [id title], got %v", got)
	}
}

func TestListStrictRejectsUnknownFields(t *testing.T) {
	catalog := &MockCatalog{}
	service := newService(catalog, config.ModeStrict)

	_, err := service.List(context.Background(), ListParams{Fields: "id,bogus,title,nope"})
	var invalid *songbook.InvalidFieldError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFieldError, got %v", err)
	}
	if !reflect.DeepEqual(invalid.Fields, []string{"bogus", "nope"}) {
		t.Errorf("expected offending fields in request order, got %v", invalid.Fields)
	}
	if len(catalog.selectCalls) != 0 {
		t.Error("storage must not be queried when a field is invalid")
	}
}

func TestListLenientDropsUnknownFields(t *testing.T) {
	catalog := &MockCatalog{rows: [][]any{{int64(7)}}}
	service := newService(catalog, config.ModeLenient)

	listing, err := service.List(context.Background(), ListParams{Fields: "bogus,id"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if listing.Strict {
		t.Error("expected a lenient listing")
	}
	if got := []string(catalog.selectCalls[0].Projection); !reflect.DeepEqual(got, []string{"id"}) {
		t.Errorf("expected projection [id], got %v", got)
	}
}

func TestListLenientEmptyProjectionSkipsStorage(t *testing.T) {
	catalog := &MockCatalog{}
	service := newService(catalog, config.ModeLenient)

	listing, err := service.List(context.Background(), ListParams{Fields: "bogus,nope"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if listing.Records == nil || len(listing.Records) != 0 {
		t.Errorf("expected an empty, non-nil record list, got %#v", listing.Records)
	}
	if len(catalog.selectCalls) != 0 {
		t.Error("storage must not be queried for an empty projection")
	}
}

func TestListEmptyResult(t *testing.T) {
	for _, mode := range []string{config.ModeStrict, config.ModeLenient} {
		t.Run(mode, func(t *testing.T) {
			service := newService(&MockCatalog{rows: [][]any{}}, mode)
			listing, err := service.List(context.Background(), ListParams{Artists: "Nobody"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(listing.Records) != 0 {
				t.Errorf("expected no records, got %d", len(listing.Records))
			}
			if listing.Strict != (mode == config.ModeStrict) {
				t.Errorf("expected Strict=%v", mode == config.ModeStrict)
			}
		})
	}
}

func TestListNilConfigIsStrict(t *testing.T) {
	service := NewService(&MockCatalog{}, nil)
	if _, err := service.List(context.Background(), ListParams{Fields: "bogus"}); err == nil {
		t.Fatal("expected strict behaviour without a config manager")
	}
}

func TestListPropagatesStorageErrors(t *testing.T) {
	cause := fmt.Errorf("%w: select: connection refused", songbook.ErrStorageUnavailable)
	service := newService(&MockCatalog{err: cause}, config.ModeStrict)

	_, err := service.List(context.Background(), ListParams{})
	if !errors.Is(err, songbook.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   songbook.Filter
	}{
		{
			name:   "empty",
			params: ListParams{},
			want:   songbook.Filter{},
		},
		{
			name:   "ids and artists are trimmed",
			params: ListParams{SongIDs: " 1, 2,,", Artists: "Bob , Ann"},
			want:   songbook.Filter{SongIDs: []int64{1, 2}, Artists: []string{"Bob", "Ann"}},
		},
		{
			name:   "equalities keep request order and split on the first colon",
			params: ListParams{FilterBy: "artist:Bob,song_length:3:45"},
			want: songbook.Filter{Equalities: []songbook.Equality{
				{Field: "artist", Value: "Bob"},
				{Field: "song_length", Value: "3:45"},
			}},
		},
		{
			name:   "values are trimmed like fields",
			params: ListParams{FilterBy: "title: A , album :Live"},
			want: songbook.Filter{Equalities: []songbook.Equality{
				{Field: "title", Value: "A"},
				{Field: "album", Value: "Live"},
			}},
		},
		{
			name:   "unknown filter fields are dropped",
			params: ListParams{FilterBy: "nonexistent:x,album:Live"},
			want:   songbook.Filter{Equalities: []songbook.Equality{{Field: "album", Value: "Live"}}},
		},
		{
			name:   "injection attempt is just a value",
			params: ListParams{FilterBy: "title:x'; DROP TABLE songs; --"},
			want:   songbook.Filter{Equalities: []songbook.Equality{{Field: "title", Value: "x'; DROP TABLE songs; --"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.params)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestParseFilterMalformed(t *testing.T) {
	tests := []struct {
		params ListParams
		param  string
		entry  string
	}{
		{ListParams{SongIDs: "1,abc"}, "song_ids", "abc"},
		{ListParams{FilterBy: "artist"}, "filter_by", "artist"},
		{ListParams{FilterBy: ":Bob"}, "filter_by", ":Bob"},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			_, err := ParseFilter(tt.params)
			var malformed *songbook.MalformedFilterError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedFilterError, got %v", err)
			}
			if malformed.Param != tt.param || malformed.Entry != tt.entry {
				t.Errorf("expected %s/%s, got %s/%s", tt.param, tt.entry, malformed.Param, malformed.Entry)
			}
		})
	}
}

func TestStatsWithoutArtists(t *testing.T) {
	catalog := &MockCatalog{
		counts: []songbook.ArtistCount{{Artist: "Bob", SongCount: 2}, {Artist: "Ann", SongCount: 1}},
		total:  2,
	}
	service := newService(catalog, config.ModeStrict)

	stats, err := service.Stats(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalArtists == nil || *stats.TotalArtists != 2 {
		t.Errorf("expected total_artists 2, got %v", stats.TotalArtists)
	}
	if len(stats.SongsByArtist) != 2 {
		t.Errorf("expected 2 groups, got %d", len(stats.SongsByArtist))
	}
	if len(catalog.countCalls[0]) != 0 {
		t.Errorf("expected an unfiltered count, got %v", catalog.countCalls[0])
	}
}

func TestStatsWithArtistsLowercasesAndOmitsTotal(t *testing.T) {
	catalog := &MockCatalog{
		counts: []songbook.ArtistCount{{Artist: "Queen", SongCount: 1}, {Artist: "QUEEN", SongCount: 1}},
	}
	service := newService(catalog, config.ModeStrict)

	stats, err := service.Stats(context.Background(), "Queen, ABBA")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !reflect.DeepEqual(catalog.countCalls[0], []string{"queen", "abba"}) {
		t.Errorf("expected lowercased names, got %v", catalog.countCalls[0])
	}
	if stats.TotalArtists != nil {
		t.Error("total_artists must be omitted when artists are given")
	}
	if catalog.totalCalls != 0 {
		t.Error("CountArtists must not run when artists are given")
	}
	if len(stats.SongsByArtist) != 2 {
		t.Errorf("expected differently capitalised artists to stay separate, got %v", stats.SongsByArtist)
	}
}

func TestStatsWithBlankArtistListIsFilteredAndEmpty(t *testing.T) {
	catalog := &MockCatalog{counts: []songbook.ArtistCount{{Artist: "Bob", SongCount: 2}}, total: 1}
	service := newService(catalog, config.ModeStrict)

	stats, err := service.Stats(context.Background(), ",")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalArtists != nil {
		t.Error("total_artists must be omitted when artist_name is given")
	}
	if stats.SongsByArtist == nil || len(stats.SongsByArtist) != 0 {
		t.Errorf("expected an empty, non-nil group list, got %#v", stats.SongsByArtist)
	}
	if len(catalog.countCalls) != 0 || catalog.totalCalls != 0 {
		t.Error("storage must not be queried when artist_name names nobody")
	}
}

func TestStatsPropagatesStorageErrors(t *testing.T) {
	service := newService(&MockCatalog{err: songbook.ErrStorageUnavailable}, config.ModeStrict)
	if _, err := service.Stats(context.Background(), "Bob"); !errors.Is(err, songbook.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
