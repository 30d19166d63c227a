package songbook

// ArtistCount is the number of songs stored under one artist value.
type ArtistCount struct {
	Artist    string `json:"artist"`
	SongCount int64  `json:"song_count"`
}

// Stats is the per-artist aggregate. TotalArtists is only set when the
// aggregate covers the whole table.
type Stats struct {
	SongsByArtist []ArtistCount `json:"songs_by_artist"`
	TotalArtists  *int64        `json:"total_artists,omitempty"`
}
