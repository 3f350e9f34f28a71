package output

import (
	"encoding/json"
)

// JSONFormatter formats results as JSON Lines (one JSON object per match).
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonMatch is the JSON serialization format for one extract.
type jsonMatch struct {
	Type       string  `json:"type"`
	File       string  `json:"file,omitempty"`
	LineNum    int     `json:"line_number"`
	Column     int     `json:"column"`
	ByteOffset int     `json:"byte_offset"`
	Length     int     `json:"length"`
	Text       string  `json:"text"`
	Match      jsonPos `json:"match"`
}

type jsonPos struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (f *JSONFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if result.Err != nil {
		return buf
	}

	for _, e := range result.Extracts {
		jm := jsonMatch{
			Type:       "match",
			File:       result.FilePath,
			LineNum:    e.LineNumber,
			Column:     e.ColumnNumber + 1,
			ByteOffset: e.Span.Position,
			Length:     e.Span.Length,
			Text:       e.Text,
			Match:      jsonPos{Start: e.MatchStart(), End: e.MatchEnd()},
		}
		data, err := json.Marshal(jm)
		if err != nil {
			continue
		}
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return buf
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
