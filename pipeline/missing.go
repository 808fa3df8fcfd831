package pipeline

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animset"
)

// MissingFile appends missing animation lines to a log file. It is safe for
// concurrent use.
type MissingFile struct {
	mu sync.Mutex
	f  *os.File
}

// OpenMissingFile opens path for appending, creating it if needed.
func OpenMissingFile(path string) (*MissingFile, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "opening missing animation log")
	}
	return &MissingFile{f: f}, nil
}

func (m *MissingFile) Missing(variant, target string, fallbacks []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintln(m.f, animset.MissingLine(variant, target, fallbacks))
}

func (m *MissingFile) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f.Close()
}

// missingCounter counts the missing animations of one variant and passes
// them on.
type missingCounter struct {
	next animset.MissingLog
	n    int
}

func (c *missingCounter) Missing(variant, target string, fallbacks []string) {
	c.n++
	if c.next != nil {
		c.next.Missing(variant, target, fallbacks)
	}
}
