// Package chunker splits long transcripts into overlapping segments with the
// langchaingo text splitters. Chunks feed logging and statistics; the stored
// embedding always covers the whole (truncated) transcript.
package chunker

import (
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/textsplitter"
)

// Fixed splitting constants.
const (
	CharChunkSize  = 2000
	CharOverlap    = 200
	TokenChunkSize = 1500 // safe margin under the 8192-token embedding limit
	TokenOverlap   = 150
)

// Chunker wraps the three splitting strategies behind one type.
type Chunker struct {
	recursive textsplitter.TextSplitter
	character textsplitter.TextSplitter
	token     textsplitter.TextSplitter
	log       *logrus.Entry
}

func New(l *logrus.Logger) *Chunker {
	return &Chunker{
		recursive: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(CharChunkSize),
			textsplitter.WithChunkOverlap(CharOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
		),
		character: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(CharChunkSize),
			textsplitter.WithChunkOverlap(CharOverlap),
			textsplitter.WithSeparators([]string{"\n"}),
		),
		token: textsplitter.NewTokenSplitter(
			textsplitter.WithChunkSize(TokenChunkSize),
			textsplitter.WithChunkOverlap(TokenOverlap),
		),
		log: l.WithField("component", "chunker"),
	}
}

// SplitRecursive splits on paragraph, sentence, then word boundaries. Best for
// keeping chunks semantically coherent.
func (c *Chunker) SplitRecursive(text string) []string {
	return c.split(c.recursive, "recursive", text)
}

// SplitCharacter splits on newlines only.
func (c *Chunker) SplitCharacter(text string) []string {
	return c.split(c.character, "character", text)
}

// SplitTokens splits on token count so chunks fit model limits.
func (c *Chunker) SplitTokens(text string) []string {
	return c.split(c.token, "token", text)
}

func (c *Chunker) split(s textsplitter.TextSplitter, name, text string) []string {
	chunks, err := s.SplitText(text)
	if err != nil {
		c.log.WithError(err).WithField("splitter", name).Error("split failed, returning whole text")
		return []string{text}
	}
	c.log.WithFields(logrus.Fields{"splitter": name, "chunks": len(chunks)}).Debug("split text")
	return chunks
}

// DocumentChunk is a chunk annotated with its position metadata.
type DocumentChunk struct {
	Text        string            `json:"text"`
	ChunkIndex  int               `json:"chunk_index"`
	TotalChunks int               `json:"total_chunks"`
	ChunkSize   int               `json:"chunk_size"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// SplitDocuments chunks with the recursive strategy and attaches metadata.
func (c *Chunker) SplitDocuments(text string, metadata map[string]string) []DocumentChunk {
	chunks := c.SplitRecursive(text)

	out := make([]DocumentChunk, 0, len(chunks))
	for i, ch := range chunks {
		out = append(out, DocumentChunk{
			Text:        ch,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			ChunkSize:   len(ch),
			Metadata:    metadata,
		})
	}
	return out
}

// Stats summarizes chunk sizes.
type Stats struct {
	TotalChunks     int `json:"total_chunks"`
	TotalCharacters int `json:"total_characters"`
	AvgChunkSize    int `json:"avg_chunk_size"`
	MinChunkSize    int `json:"min_chunk_size"`
	MaxChunkSize    int `json:"max_chunk_size"`
}

func ChunkStats(chunks []string) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	st := Stats{TotalChunks: len(chunks), MinChunkSize: len(chunks[0])}
	for _, ch := range chunks {
		n := len(ch)
		st.TotalCharacters += n
		if n < st.MinChunkSize {
			st.MinChunkSize = n
		}
		if n > st.MaxChunkSize {
			st.MaxChunkSize = n
		}
	}
	st.AvgChunkSize = st.TotalCharacters / len(chunks)
	return st
}
