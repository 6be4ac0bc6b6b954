// Package checklist implements the exact-match/glob FQDN set (CheckList)
// and its deny-wins composition (CompositeCheckList) used to classify
// queries against the allow/deny policy.
package checklist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ErrSaveButInMemory is returned by Save when the list has no associated
// file path.
var ErrSaveButInMemory = errors.New("checklist: in-memory mode")

// CheckList is an in-memory set of FQDNs, split between exact names and
// glob patterns (anything containing '*'; '?' is glob-match syntax but
// does not itself route a literal into the pattern set). A list may
// optionally be bound to a file path for persistence.
type CheckList struct {
	path   string
	names  map[string]struct{}
	wnames map[string]glob.Glob
}

// New returns an empty in-memory CheckList.
func New() *CheckList {
	return &CheckList{
		names:  make(map[string]struct{}),
		wnames: make(map[string]glob.Glob),
	}
}

// Load reads a CheckList from a UTF-8 text file, one entry per line. A
// line containing '*' is routed to the pattern set; everything else is
// stored as an exact name.
func Load(path string) (*CheckList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("checklist: open %s: %w", path, err)
	}
	defer f.Close()

	cl := &CheckList{
		path:   path,
		names:  make(map[string]struct{}),
		wnames: make(map[string]glob.Glob),
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := cl.insert(line); err != nil {
			return nil, fmt.Errorf("checklist: %s: %w", path, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("checklist: read %s: %w", path, err)
	}
	return cl, nil
}

func (cl *CheckList) insert(name string) error {
	if strings.Contains(name, "*") {
		g, err := glob.Compile(name)
		if err != nil {
			return fmt.Errorf("compile pattern %q: %w", name, err)
		}
		cl.wnames[name] = g
		return nil
	}
	cl.names[name] = struct{}{}
	return nil
}

// Check reports whether name is covered by this list: an exact match, or
// a match against any glob pattern. Patterns are anchored at both ends —
// "*.example.com" matches "a.example.com" but not "example.com" itself.
func (cl *CheckList) Check(name string) bool {
	if _, ok := cl.names[name]; ok {
		return true
	}
	for _, g := range cl.wnames {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Add inserts name, routing to the pattern set if it contains '*'.
// Returns 1 if the name was newly inserted, 0 if it was already present.
func (cl *CheckList) Add(name string) int {
	if strings.Contains(name, "*") {
		if _, ok := cl.wnames[name]; ok {
			return 0
		}
		g, err := glob.Compile(name)
		if err != nil {
			// An uncompilable pattern is simply not added; the caller
			// observes this as "not added" via the unchanged count.
			return 0
		}
		cl.wnames[name] = g
		return 1
	}
	if _, ok := cl.names[name]; ok {
		return 0
	}
	cl.names[name] = struct{}{}
	return 1
}

// Delete removes name from the exact-name set only, never from patterns,
// even if name itself contains '*' or '?'.
func (cl *CheckList) Delete(name string) int {
	if _, ok := cl.names[name]; ok {
		delete(cl.names, name)
		return 1
	}
	return 0
}

// Count returns the total number of exact names plus patterns.
func (cl *CheckList) Count() int {
	return len(cl.names) + len(cl.wnames)
}

// HasPath reports whether this list is bound to a file for persistence.
func (cl *CheckList) HasPath() bool {
	return cl.path != ""
}

// Save serializes the list back to its origin file: exact names sorted
// lexicographically, followed by patterns sorted lexicographically, one
// per line. Fails with ErrSaveButInMemory if the list has no origin path.
func (cl *CheckList) Save() error {
	if cl.path == "" {
		return ErrSaveButInMemory
	}

	names := make([]string, 0, len(cl.names))
	for n := range cl.names {
		names = append(names, n)
	}
	sort.Strings(names)

	wnames := make([]string, 0, len(cl.wnames))
	for n := range cl.wnames {
		wnames = append(wnames, n)
	}
	sort.Strings(wnames)

	f, err := os.Create(cl.path)
	if err != nil {
		return fmt.Errorf("checklist: create %s: %w", cl.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, n := range names {
		if _, err := fmt.Fprintf(w, "%s\n", n); err != nil {
			return fmt.Errorf("checklist: write %s: %w", cl.path, err)
		}
	}
	for _, n := range wnames {
		if _, err := fmt.Fprintf(w, "%s\n", n); err != nil {
			return fmt.Errorf("checklist: write %s: %w", cl.path, err)
		}
	}
	return w.Flush()
}

// Iter yields every entry: exact names first (arbitrary order), then
// patterns (arbitrary order).
func (cl *CheckList) Iter() []string {
	out := make([]string, 0, cl.Count())
	for n := range cl.names {
		out = append(out, n)
	}
	for n := range cl.wnames {
		out = append(out, n)
	}
	return out
}
