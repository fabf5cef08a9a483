package mapper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClassPrefix starts the first line of every text record.
const ClassPrefix = "__class__:"

// maxIndex bounds collection indices so a corrupt record cannot make Decode
// allocate an arbitrarily large slice.
const maxIndex = 1 << 24

// Record is the structural view of a text record, before any field binding.
type Record struct {
	// Tag is the type tag from the "__class__:" line. Empty for legacy records.
	Tag string `json:"tag,omitempty"`
	// Scalars holds "key:value" entries, values unescaped.
	Scalars map[string]string `json:"scalars"`
	// Collections holds "key>index:value" entries by key and index.
	Collections map[string]map[int]string `json:"collections"`
}

// Items returns the entries of a collection ordered by index, with gaps
// filled by empty strings.
func (r *Record) Items(name string) []string {
	entries := r.Collections[name]
	n := 0
	for i := range entries {
		if i+1 > n {
			n = i + 1
		}
	}
	items := make([]string, n)
	for i, v := range entries {
		items[i] = v
	}
	return items
}

// Parse splits a text record into its tag, scalar and collection entries.
// Lines are parsed uniformly, so entry order and line grouping do not matter.
func Parse(text string) (*Record, error) {
	rec := &Record{
		Scalars:     make(map[string]string),
		Collections: make(map[string]map[int]string),
	}

	lines := strings.Split(text, "\n")
	for n, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if n == 0 && strings.HasPrefix(line, ClassPrefix) {
			rec.Tag = strings.TrimSpace(strings.TrimPrefix(line, ClassPrefix))
			if rec.Tag == "" {
				return nil, errors.New("line 1: empty type tag")
			}
			continue
		}

		entries, err := splitEntries(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		for _, entry := range entries {
			if err := rec.add(entry); err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
		}
	}
	return rec, nil
}

func (r *Record) add(entry string) error {
	label, raw, ok := strings.Cut(entry, ":")
	if !ok {
		return fmt.Errorf("entry %q has no ':' separator", entry)
	}
	value, err := unescape(raw)
	if err != nil {
		return fmt.Errorf("entry %q: %w", label, err)
	}

	name, idxText, isItem := strings.Cut(label, ">")
	if name == "" {
		return fmt.Errorf("entry %q has an empty label", entry)
	}
	if !isItem {
		r.Scalars[name] = value
		return nil
	}

	idx, err := strconv.Atoi(idxText)
	if err != nil || idx < 0 || idx >= maxIndex {
		return fmt.Errorf("entry %q has an invalid index", label)
	}
	if r.Collections[name] == nil {
		r.Collections[name] = make(map[int]string)
	}
	r.Collections[name][idx] = value
	return nil
}

// splitEntries splits a line on unescaped commas. Escapes are kept so that
// unescape can run per value. The trailing separator is optional.
func splitEntries(line string) ([]string, error) {
	var (
		entries []string
		cur     strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '\\':
			if i+1 >= len(line) {
				return nil, errors.New("dangling escape at end of line")
			}
			cur.WriteByte(c)
			cur.WriteByte(line[i+1])
			i++
		case ',':
			entries = append(entries, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		entries = append(entries, cur.String())
	}
	return entries, nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`, "\n", `\n`, "\r", `\r`)

// escape makes a value safe to embed in an entry.
// ':' and '>' are left alone: the label always ends at the first ':'.
func escape(value string) string {
	return escaper.Replace(value)
}

func unescape(raw string) (string, error) {
	if !strings.Contains(raw, `\`) {
		return raw, nil
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			return "", errors.New("dangling escape")
		}
		i++
		switch raw[i] {
		case '\\':
			b.WriteByte('\\')
		case ',':
			b.WriteByte(',')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf(`invalid escape "\%c"`, raw[i])
		}
	}
	return b.String(), nil
}

// validLabel reports whether name can be written as an entry label.
func validLabel(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, ":>,\\ \t\r\n")
}
