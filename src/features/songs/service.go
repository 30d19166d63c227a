package songs

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/songbook"
)

// NoResultsMessage is the informational payload strict mode answers with when nothing matches.
const NoResultsMessage = "No se encontraron canciones con los criterios proporcionados"

// allFieldsSentinel selects every field, as does an absent or empty value.
const allFieldsSentinel = "all"

// Service is the domain service for the songs feature.
type Service struct {
	catalog       songbook.Catalog
	configManager *config.Manager
}

// NewService creates a new songs service.
func NewService(catalog songbook.Catalog, cfgManager *config.Manager) *Service {
	return &Service{
		catalog:       catalog,
		configManager: cfgManager,
	}
}

// ListParams are the raw query parameters of a song listing.
type ListParams struct {
	SongIDs  string // song_ids
	Artists  string // artist_name
	FilterBy string // filter_by
	Fields   string // fields
}

// Listing is the outcome of a song listing. Strict records which contract the
// listing was produced under so the caller renders an empty result accordingly.
type Listing struct {
	Projection songbook.Projection
	Records    []songbook.Record
	Strict     bool
}

// List validates the request, queries the catalog and maps the rows.
// In strict mode an unknown field fails before storage is touched; in lenient
// mode unknown fields are dropped and an empty projection yields no records.
func (s *Service) List(ctx context.Context, params ListParams) (*Listing, error) {
	strict := s.strict()
	slog.Debug("List service called", "strict", strict, "fields", params.Fields)

	projection, err := ParseProjection(params.Fields, strict)
	if err != nil {
		return nil, err
	}
	filter, err := ParseFilter(params)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Projection: projection, Records: []songbook.Record{}, Strict: strict}
	if projection.Empty() {
		slog.Debug("Projection is empty, skipping storage")
		return listing, nil
	}

	rows, err := s.catalog.Select(ctx, songbook.Query{Projection: projection, Filter: filter})
	if err != nil {
		slog.Error("List failed", "error", err)
		return nil, err
	}
	listing.Records = songbook.MapRecords(projection, rows)
	slog.Debug("List completed", "count", len(listing.Records))
	return listing, nil
}

// Stats computes song counts per artist. With artist_name the match is
// case-insensitive but groups keep the stored spelling, and no total is
// computed. Without it the whole table is grouped and the number of
// distinct artists is added.
func (s *Service) Stats(ctx context.Context, artistParam string) (*songbook.Stats, error) {
	filtered := artistParam != ""
	artists := splitList(artistParam)
	for i, a := range artists {
		artists[i] = strings.ToLower(a)
	}
	slog.Debug("Stats service called", "filtered", filtered, "artists", artists)

	// artist_name was given but names nothing, e.g. ",": nothing can match.
	if filtered && len(artists) == 0 {
		return &songbook.Stats{SongsByArtist: []songbook.ArtistCount{}}, nil
	}

	counts, err := s.catalog.CountByArtist(ctx, artists)
	if err != nil {
		slog.Error("CountByArtist failed", "error", err)
		return nil, err
	}
	stats := &songbook.Stats{SongsByArtist: counts}
	if filtered {
		return stats, nil
	}

	total, err := s.catalog.CountArtists(ctx)
	if err != nil {
		slog.Error("CountArtists failed", "error", err)
		return nil, err
	}
	stats.TotalArtists = &total
	return stats, nil
}

// Ready checks that the catalog answers.
func (s *Service) Ready(ctx context.Context) error {
	return s.catalog.Ping(ctx)
}

func (s *Service) strict() bool {
	if s.configManager == nil {
		return true
	}
	return s.configManager.Get().Strict()
}

// ParseProjection turns the fields parameter into a projection. Absent, empty
// or "all" selects every field. Names are case-sensitive.
func ParseProjection(raw string, strict bool) (songbook.Projection, error) {
	if strings.TrimSpace(raw) == allFieldsSentinel {
		return songbook.AllFields(), nil
	}
	requested := splitList(raw)
	if len(requested) == 0 {
		return songbook.AllFields(), nil
	}

	projection := make(songbook.Projection, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	var invalid []string
	for _, field := range requested {
		// A repeated name keeps its first position; record keys stay unique.
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		if songbook.IsField(field) {
			projection = append(projection, field)
		} else {
			invalid = append(invalid, field)
		}
	}
	if len(invalid) == 0 {
		return projection, nil
	}
	if strict {
		return nil, &songbook.InvalidFieldError{Fields: invalid}
	}
	slog.Debug("Dropping unknown fields", "fields", invalid)
	return projection, nil
}

// ParseFilter turns the filter parameters into a Filter. Unknown filter_by
// fields are dropped; entries that cannot be parsed are rejected.
func ParseFilter(params ListParams) (songbook.Filter, error) {
	var filter songbook.Filter

	for _, raw := range splitList(params.SongIDs) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return songbook.Filter{}, &songbook.MalformedFilterError{Param: "song_ids", Entry: raw}
		}
		filter.SongIDs = append(filter.SongIDs, id)
	}

	filter.Artists = splitList(params.Artists)

	for _, entry := range splitList(params.FilterBy) {
		field, value, found := strings.Cut(entry, ":")
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if !found || field == "" {
			return songbook.Filter{}, &songbook.MalformedFilterError{Param: "filter_by", Entry: entry}
		}
		if !songbook.IsField(field) {
			slog.Debug("Dropping filter on unknown field", "field", field)
			continue
		}
		filter.Equalities = append(filter.Equalities, songbook.Equality{Field: field, Value: value})
	}

	return filter, nil
}

// splitList splits a comma-separated parameter, trimming blanks and skipping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
