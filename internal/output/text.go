package output

import (
	"strconv"

	"github.com/dl/gocs/internal/contents"
)

// TextFormatter formats results as path:line:column:snippet lines,
// optionally colored.
type TextFormatter struct {
	countOnly bool
	filesOnly bool
	useColor  bool
	styles    Styles
}

// NewTextFormatter creates a TextFormatter. Styles are only applied when useColor is set.
func NewTextFormatter(countOnly bool, filesOnly bool, useColor bool) *TextFormatter {
	f := &TextFormatter{
		countOnly: countOnly,
		filesOnly: filesOnly,
		useColor:  useColor,
	}
	if useColor {
		f.styles = NewStyles()
	}
	return f
}

func (f *TextFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if f.filesOnly {
		if result.HasMatch() {
			buf = f.appendStyled(buf, f.styles.Filename.Render, result.FilePath)
			buf = append(buf, '\n')
		}
		return buf
	}

	if f.countOnly {
		if multiFile && !result.HasMatch() {
			return buf
		}
		if multiFile {
			buf = f.appendStyled(buf, f.styles.Filename.Render, result.FilePath)
			buf = f.appendStyled(buf, f.styles.Separator.Render, ":")
		}
		buf = strconv.AppendInt(buf, int64(result.Count()), 10)
		buf = append(buf, '\n')
		return buf
	}

	for _, e := range result.Extracts {
		buf = f.formatExtract(buf, result.FilePath, e, multiFile)
	}
	return buf
}

func (f *TextFormatter) formatExtract(buf []byte, filePath string, e contents.Extract, multiFile bool) []byte {
	if multiFile {
		buf = f.appendStyled(buf, f.styles.Filename.Render, filePath)
		buf = f.appendStyled(buf, f.styles.Separator.Render, ":")
	}

	buf = f.appendStyled(buf, f.styles.LineNum.Render, strconv.Itoa(e.LineNumber))
	buf = f.appendStyled(buf, f.styles.Separator.Render, ":")
	buf = f.appendStyled(buf, f.styles.LineNum.Render, strconv.Itoa(e.ColumnNumber+1))
	buf = f.appendStyled(buf, f.styles.Separator.Render, ":")

	if f.useColor {
		start, end := e.MatchStart(), e.MatchEnd()
		buf = append(buf, e.Text[:start]...)
		buf = append(buf, f.styles.Match.Render(e.Text[start:end])...)
		buf = append(buf, e.Text[end:]...)
	} else {
		buf = append(buf, e.Text...)
	}

	buf = append(buf, '\n')
	return buf
}

func (f *TextFormatter) appendStyled(buf []byte, render func(...string) string, s string) []byte {
	if !f.useColor {
		return append(buf, s...)
	}
	return append(buf, render(s)...)
}

var _ Formatter = (*TextFormatter)(nil)
