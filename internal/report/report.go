package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"shield-optimizer/internal/search"
)

var (
	slugStrip = regexp.MustCompile(`[^.()\[\]\w\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// slugify makes a string safe as a file name: compatibility-decompose it,
// drop everything but word characters, dots, parens, brackets and dashes,
// then turn whitespace runs into underscores.
func slugify(value string) string {
	value = norm.NFKD.String(value)
	value = strings.TrimSpace(slugStrip.ReplaceAllString(value, ""))
	return slugSpace.ReplaceAllString(value, "_")
}

// Writer appends search reports to text files in one directory. Files are
// named after the slugified report name plus a timestamp, so repeated runs
// for the same vehicle line up next to each other.
type Writer struct {
	Dir string
	// Now overrides the clock, for tests. nil means time.Now.
	Now func() time.Time
}

const (
	fileStamp   = "2006-01-02 15.04.05"
	headerStamp = "2006-01-02 15:04:05"
)

// WriteLog appends the setup block and the result block to the log file and
// returns the path written. An empty name falls back to the bare timestamp.
func (w *Writer) WriteLog(name string, req *search.Request, res *search.Result) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	stamp := now()

	filename := stamp.Format(fileStamp)
	if name != "" {
		filename = name + " " + filename
	}
	path := filepath.Join(w.Dir, slugify(filename)+".txt")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString("Test run at: ")
	b.WriteString(stamp.Format(headerStamp))
	b.WriteString("\n")
	b.WriteString(req.OutputString())
	b.WriteString("\n")
	b.WriteString(res.OutputString(req.Damage.Reinforcement))
	b.WriteString("\n\n\n")

	if _, err := f.WriteString(b.String()); err != nil {
		return "", fmt.Errorf("report: %w", err)
	}
	return path, nil
}
