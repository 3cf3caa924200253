// Package idgen produces loan numbers and payment references
package idgen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// UUIDGenerator derives identifiers from random UUIDs
type UUIDGenerator struct{}

// NewLoanNumber returns a loan number such as LN-3F2A9C1B7D4E
func (UUIDGenerator) NewLoanNumber() string {
	return "LN-" + shortUUID()
}

// NewReference returns a reference such as PRE-3F2A9C1B7D4E
func (UUIDGenerator) NewReference(prefix string) string {
	return prefix + "-" + shortUUID()
}

func shortUUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Sequence hands out predictable identifiers for tests
type Sequence struct {
	mu sync.Mutex
	n  int
}

// NewLoanNumber returns LN-000001, LN-000002, ...
func (s *Sequence) NewLoanNumber() string {
	return fmt.Sprintf("LN-%06d", s.next())
}

// NewReference returns <prefix>-000001, <prefix>-000002, ...
func (s *Sequence) NewReference(prefix string) string {
	return fmt.Sprintf("%s-%06d", prefix, s.next())
}

func (s *Sequence) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}
