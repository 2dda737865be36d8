// Package dataset reads alias datasets from disk and builds tries from them.
//
// A dataset directory holds any number of CSV files, one record per line:
//
//	# greek letters
//	alpha,α
//	beta,β
//
// Lines starting with '#' are comments and blank lines are ignored. The alias
// is everything before the first comma, trimmed, and must be non-empty ASCII.
// The character is the first rune after the comma once surrounding space is
// trimmed; anything after it is ignored. A dataset may ship a Markdown help
// page next to it with the same base name (greek.csv, greek.md).
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/unialias/pkg/trie"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	DataExt = ".csv"
	DocExt  = ".md"
)

var ErrMalformedRecord = errors.New("malformed dataset record")

// Record is one parsed line.
type Record struct {
	Alias string
	Char  rune
	Line  int
}

// FileReport describes what one file contributed to a build.
type FileReport struct {
	Name    string
	Records int
	Skipped int
}

// Report summarizes a build.
type Report struct {
	Files      []FileReport
	Aliases    int
	Duplicates int
	Elapsed    time.Duration
}

// Loader builds tries from every dataset file in a directory.
type Loader struct {
	dir     string
	workers int
}

// NewLoader creates a loader for dir. workers bounds how many files are
// parsed at once; values below 1 mean one per file.
func NewLoader(dir string, workers int) *Loader {
	return &Loader{
		dir:     dir,
		workers: workers,
	}
}

func (l *Loader) Dir() string {
	return l.dir
}

// Files lists the dataset files in lexical order.
func (l *Loader) Files() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset directory %s: %w", l.dir, err)
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(l.dir, e.Name())
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), DataExt) {
			log.Debugf("Skipping non-csv entry: %s", path)
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// Build parses all dataset files and inserts their records into a new trie.
// Files are parsed concurrently but inserted in lexical file order, so the
// same directory always yields the same trie. Duplicate aliases are skipped
// with a warning; any malformed line fails the whole build.
func (l *Loader) Build(ctx context.Context) (*trie.Trie, Report, error) {
	start := time.Now()
	var report Report

	files, err := l.Files()
	if err != nil {
		return nil, report, err
	}
	log.Debugf("Loading %d dataset files from %s", len(files), l.dir)

	parsed := make([][]Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if l.workers > 0 {
		g.SetLimit(l.workers)
	}
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := ParseFile(path)
			if err != nil {
				return fmt.Errorf("failed to parse dataset file %s: %w", path, err)
			}
			parsed[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	t := trie.New()
	for i, records := range parsed {
		fr := FileReport{Name: filepath.Base(files[i]), Records: len(records)}
		for _, r := range records {
			err := t.AppendLeaf(r.Alias, r.Char)
			switch {
			case err == nil:
			case errors.Is(err, trie.ErrDuplicateAlias):
				log.Warnf("%s:%d: skipping %q: %v", fr.Name, r.Line, r.Alias, err)
				fr.Skipped++
			default:
				return nil, report, fmt.Errorf("%s:%d: %w", fr.Name, r.Line, err)
			}
		}
		report.Duplicates += fr.Skipped
		report.Files = append(report.Files, fr)
		log.Debugf("Loaded dataset %s: %d records, %d skipped", fr.Name, fr.Records, fr.Skipped)
	}

	report.Aliases = t.Size()
	report.Elapsed = time.Since(start)
	return t, report, nil
}

// ParseFile parses one dataset file.
func ParseFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, filepath.Base(path))
}

// ParseReader parses dataset records from r. name only labels errors.
func ParseReader(r io.Reader, name string) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		rec.Line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return records, nil
}

func parseLine(line string) (Record, error) {
	idx := strings.IndexByte(line, ',')
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: no comma separator in %q", ErrMalformedRecord, line)
	}

	alias := strings.TrimSpace(line[:idx])
	if err := trie.ValidateAlias(alias); err != nil {
		return Record{}, fmt.Errorf("%w: %w in %q", ErrMalformedRecord, err, line)
	}

	rest := strings.TrimSpace(line[idx+1:])
	if rest == "" {
		return Record{}, fmt.Errorf("%w: no character after the comma in %q", ErrMalformedRecord, line)
	}
	ch, size := utf8.DecodeRuneInString(rest)
	if ch == utf8.RuneError && size <= 1 {
		return Record{}, fmt.Errorf("%w: invalid UTF-8 character in %q", ErrMalformedRecord, line)
	}
	return Record{Alias: alias, Char: ch}, nil
}
