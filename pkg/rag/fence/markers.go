package fence

import (
	"strings"
	"unicode"
)

// Delimiter surrounds inline image markers: &&&image:(description)&&&
const Delimiter = "&&&"

const imagePrefix = "image:"

// Piece is one element of a marker split. Image pieces carry the cleaned
// description, text pieces the verbatim text.
type Piece struct {
	Image bool
	Text  string
}

// SplitRaw cuts text on every Delimiter, keeping empty pieces so that the
// split is lossless: "A&&&image:(cat)&&&B" gives ["A", "image:(cat)", "B"].
func SplitRaw(text string) []string {
	return strings.Split(text, Delimiter)
}

// SplitMarkers walks text from delimiter to delimiter. A piece is an image
// only when it begins with "image:" after optional leading whitespace; anything
// else, including a stray piece between two delimiters, is literal text. An
// image marker with an empty description is dropped. Classification is by prefix, not by
// position, so an unbalanced delimiter cannot shift every following marker.
// Delimiters never survive and an unterminated final marker is still honoured.
func SplitMarkers(text string) []Piece {
	pieces := make([]Piece, 0)
	rest := text
	for {
		idx := strings.Index(rest, Delimiter)
		if idx < 0 {
			return appendPiece(pieces, rest)
		}
		pieces = appendPiece(pieces, rest[:idx])
		rest = rest[idx+len(Delimiter):]
	}
}

func appendPiece(pieces []Piece, raw string) []Piece {
	if desc, ok := imageDescription(raw); ok {
		if desc == "" {
			return pieces
		}
		return append(pieces, Piece{Image: true, Text: desc})
	}
	if raw == "" {
		return pieces
	}
	return append(pieces, Piece{Text: raw})
}

func imageDescription(raw string) (string, bool) {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, imagePrefix) {
		return "", false
	}
	desc := strings.TrimSpace(strings.TrimPrefix(trimmed, imagePrefix))
	if len(desc) >= 2 && desc[0] == '(' && desc[len(desc)-1] == ')' {
		desc = strings.TrimSpace(desc[1 : len(desc)-1])
	}
	return desc, true
}
