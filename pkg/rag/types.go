package rag

import (
	"strings"

	"notecraft-be/pkg/rag/namespace"
)

// TopicSet is the classifier's view of a query: one subject namespace and
// the ordered subtopics the notes should cover.
type TopicSet struct {
	Namespace namespace.Namespace `json:"namespace"`
	Topics    []string            `json:"topics"`
}

// ContextSource tells where the passages of a ContextBundle came from.
type ContextSource string

const (
	SourceVectorStore   ContextSource = "vector-store"
	SourceExternalFetch ContextSource = "external-fetch"
	SourceNone          ContextSource = "none"
)

const (
	MessageFound     = "found"
	MessageFetched   = "fetched"
	MessageNoContext = "no documents found"
)

// ContextBundle is the result of a best-effort retrieval. A bundle with
// SourceNone is a valid, empty result rather than an error.
type ContextBundle struct {
	Message   string        `json:"message"`
	Documents []string      `json:"documents"`
	Source    ContextSource `json:"source"`
}

// EmptyContext returns the degraded bundle used when nothing could be retrieved.
func EmptyContext() ContextBundle {
	return ContextBundle{
		Message:   MessageNoContext,
		Documents: []string{},
		Source:    SourceNone,
	}
}

// SegmentKind distinguishes literal text from resolved images in a NoteDocument.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentImage
)

// Segment is one piece of a NoteDocument, kept in generation order.
type Segment struct {
	Kind        SegmentKind
	Text        string
	Description string
	URL         string
}

// ImageRef is a resolved inline image.
type ImageRef struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NoteDocument is the final artifact of note synthesis.
type NoteDocument struct {
	Segments []Segment
}

// Content renders the document as markdown. Text segments are emitted
// verbatim, images as ![description](url).
func (d *NoteDocument) Content() string {
	var b strings.Builder
	for _, s := range d.Segments {
		switch s.Kind {
		case SegmentImage:
			b.WriteString("![")
			b.WriteString(s.Description)
			b.WriteString("](")
			b.WriteString(s.URL)
			b.WriteString(")")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Images lists the resolved image references in document order.
func (d *NoteDocument) Images() []ImageRef {
	refs := make([]ImageRef, 0)
	for _, s := range d.Segments {
		if s.Kind == SegmentImage {
			refs = append(refs, ImageRef{Description: s.Description, URL: s.URL})
		}
	}
	return refs
}
