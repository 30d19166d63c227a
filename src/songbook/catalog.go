package songbook

import "context"

// Catalog is the read port over the songs table.
type Catalog interface {
	// Select runs the query and returns rows whose columns follow q.Projection.
	Select(ctx context.Context, q Query) ([][]any, error)
	// CountByArtist groups songs by artist. When artists is non-empty only
	// rows whose lowercased artist is in the (already lowercased) list count.
	CountByArtist(ctx context.Context, artists []string) ([]ArtistCount, error)
	// CountArtists returns the number of distinct artist values.
	CountArtists(ctx context.Context) (int64, error)
	// Ping checks that the backend answers.
	Ping(ctx context.Context) error
}
