package model

import (
	"bufio"
	"bytes"
	"fmt"
)

// ContentPreview represents the first lines of a page body
type ContentPreview struct {
	Path       string   // Content path the preview was read from
	Lines      []string // Leading lines of the body
	TotalLines int      // Number of lines in the whole body
	Truncated  bool     // Whether lines were cut off after MaxLines
	ErrorMsg   string   // Error message if the body couldn't be fetched
}

// NewContentPreview splits a page body into lines, keeping at most maxLines.
// A maxLines of zero or less keeps everything.
func NewContentPreview(path string, content []byte, maxLines int) ContentPreview {
	result := ContentPreview{Path: path}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	// Long lines are common in markdown paragraphs
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	for scanner.Scan() {
		result.TotalLines++
		if maxLines > 0 && len(result.Lines) >= maxLines {
			result.Truncated = true
			continue
		}
		result.Lines = append(result.Lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading content: %v", err)
	}

	return result
}

// PreviewError builds a preview that only carries an error message
func PreviewError(path string, err error) ContentPreview {
	return ContentPreview{
		Path:     path,
		ErrorMsg: fmt.Sprintf("Could not read content: %v", err),
	}
}
