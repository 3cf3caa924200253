package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoanLocker_SerializesSameLoan(t *testing.T) {
	locker := NewLoanLocker()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(1)
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locker.locks)
}

func TestLoanLocker_IndependentLoans(t *testing.T) {
	locker := NewLoanLocker()

	unlockA := locker.Lock(1)
	// a different loan must not wait on loan 1
	unlockB := locker.Lock(2)
	assert.Len(t, locker.locks, 2)

	unlockB()
	unlockA()
	assert.Empty(t, locker.locks)
}
