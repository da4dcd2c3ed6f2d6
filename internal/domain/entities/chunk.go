package entities

// ChunkRole marks the position of a window inside the source text. The role
// changes the extraction instructions sent to the backend: openings carry
// introductions and participants, closings carry commitments, deadlines and
// late-mentioned risks.
type ChunkRole string

const (
	ChunkRoleOpening ChunkRole = "opening"
	ChunkRoleMiddle  ChunkRole = "middle"
	ChunkRoleClosing ChunkRole = "closing"
)

// TranscriptChunk is one overlapping window of source text sized to fit a
// backend's context budget. Chunks are produced, consumed once and discarded;
// they are never persisted.
type TranscriptChunk struct {
	Index int
	Role  ChunkRole
	Start int // rune offset, inclusive
	End   int // rune offset, exclusive
	Text  string
}

// ChunkSummary is the per-window extraction result. Summaries are combined
// strictly in index order; they are never reordered by content.
type ChunkSummary struct {
	Index int
	Label string
	Text  string
}
