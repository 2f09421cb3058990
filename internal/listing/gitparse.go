package listing

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"

	"pagetree/internal/model"
)

// lsTreeRecord matches one record of `git ls-tree -z`:
// <mode> SP <type> SP <object> TAB <path>
var lsTreeRecord = regexp.MustCompile(`^([0-7]{6}) (blob|tree|commit) ([0-9a-f]{40}|[0-9a-f]{64})\t(.+)$`)

// LsTreeParser turns `git ls-tree -r -t -z` output into entries.
type LsTreeParser struct {
	// Skipped counts records that were not blobs or trees (submodules) or
	// did not match the record format.
	Skipped int
}

// Parse reads NUL separated records until EOF.
func (p *LsTreeParser) Parse(r io.Reader) ([]model.Entry, error) {
	scanner := bufio.NewScanner(r)
	// Long paths are rare but legal
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitNUL)

	var entries []model.Entry
	for scanner.Scan() {
		record := scanner.Text()
		if record == "" {
			continue
		}
		matches := lsTreeRecord.FindStringSubmatch(record)
		if len(matches) != 5 {
			p.Skipped++
			continue
		}

		var kind model.EntryType
		switch matches[2] {
		case "blob":
			kind = model.EntryFile
		case "tree":
			kind = model.EntryDirectory
		default:
			p.Skipped++
			continue
		}
		entries = append(entries, model.Entry{
			Path:        matches[4],
			Type:        kind,
			ContentHash: matches[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read ls-tree output: %w", err)
	}
	return entries, nil
}

func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
