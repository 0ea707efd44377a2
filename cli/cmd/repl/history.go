package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// maxHistory is the number of entries kept. Older entries are dropped from
// the file the next time it is rewritten.
const maxHistory = 1000

// HistoryEntry represents a single history entry with its mode.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// Mode prefixes of history file lines.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

func (e HistoryEntry) String() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line
	}

	return evalPrefix + e.Line
}

// parseEntry decodes one history file line. Lines without a mode prefix are
// eval entries.
func parseEntry(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	s, _ := strings.CutPrefix(line, evalPrefix)

	return HistoryEntry{Line: s, Mode: modeEval}
}

// History manages command history with file persistence. Each line of the
// file is one entry prefixed with the mode it was entered in.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file, keeping the most recent
// [maxHistory].
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, parseEntry(line))
	}

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Clone(h.entries[n-maxHistory:])
	}

	return scanner.Err()
}

// Write appends a new eval-mode entry to the history.
func (h *History) Write(entry string) (int, error) {
	return h.WriteWithMode(entry, modeEval)
}

// WriteWithMode appends a new entry to the history with the specified mode.
// An earlier entry with the same line and mode is moved to the end.
func (h *History) WriteWithMode(line string, mode inputMode) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return len(line), nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if i >= 0 || len(h.entries) > maxHistory {
		if n := len(h.entries); n > maxHistory {
			h.entries = slices.Delete(h.entries, 0, n-maxHistory)
		}

		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return file.WriteString(entry.String() + "\n")
}

// GetLine retrieves a historic line by index.
// Index 0 is the oldest entry.
func (h *History) GetLine(i int) (string, error) {
	e, err := h.GetEntry(i)

	return e.Line, err
}

// GetEntry retrieves a historic entry (line and mode) by index.
// Index 0 is the oldest entry.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	total := 0

	for _, entry := range h.entries {
		n, err := w.WriteString(entry.String() + "\n")
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, w.Flush()
}
