package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}

	a := g.NewLoanNumber()
	b := g.NewLoanNumber()
	assert.True(t, strings.HasPrefix(a, "LN-"))
	assert.Len(t, a, 15)
	assert.NotEqual(t, a, b)

	ref := g.NewReference("PAY")
	assert.True(t, strings.HasPrefix(ref, "PAY-"))
	assert.Equal(t, strings.ToUpper(ref), ref)
}

func TestSequence(t *testing.T) {
	s := &Sequence{}
	assert.Equal(t, "LN-000001", s.NewLoanNumber())
	assert.Equal(t, "PRE-000002", s.NewReference("PRE"))
	assert.Equal(t, "LN-000003", s.NewLoanNumber())
}
