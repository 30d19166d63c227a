package songbook

// Column names of the songs table. This is the complete allow-list: nothing
// outside it is ever projected, filtered on or written into SQL text.
const (
	FieldID            = "id"
	FieldTitle         = "title"
	FieldArtist        = "artist"
	FieldAlbum         = "album"
	FieldSongYear      = "song_year"
	FieldOriginalKey   = "original_key"
	FieldOriginalLead  = "original_lead"
	FieldBPM           = "bpm"
	FieldTimeSignature = "time_signature"
	FieldSongLength    = "song_length"
	FieldManKey        = "man_key"
	FieldWomanKey      = "woman_key"
	FieldVisibility    = "visibility"
	FieldIntensity     = "intensity"
)

// Table is the only table the service reads from.
const Table = "songs"

var allFields = []string{
	FieldID, FieldTitle, FieldArtist, FieldAlbum, FieldSongYear, FieldOriginalKey, FieldOriginalLead,
	FieldBPM, FieldTimeSignature, FieldSongLength, FieldManKey, FieldWomanKey, FieldVisibility, FieldIntensity,
}

var fieldSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(allFields))
	for _, f := range allFields {
		set[f] = struct{}{}
	}
	return set
}()

// Fields returns a copy of the allow-list in table order.
func Fields() []string {
	fields := make([]string, len(allFields))
	copy(fields, allFields)
	return fields
}

// IsField reports whether name is an allow-listed column. Matching is case-sensitive.
func IsField(name string) bool {
	_, ok := fieldSet[name]
	return ok
}

// Projection is the ordered list of fields returned per record.
type Projection []string

// AllFields is the projection used when the client does not pick fields.
func AllFields() Projection {
	return Projection(Fields())
}

// Empty reports whether the projection selects nothing.
func (p Projection) Empty() bool {
	return len(p) == 0
}
