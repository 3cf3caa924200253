package services

import "sync"

// LoanLocker serializes mutations of the same loan within this process.
// Optimistic versioning on the loan row covers other processes.
type LoanLocker struct {
	mu    sync.Mutex
	locks map[uint]*loanLock
}

type loanLock struct {
	mu   sync.Mutex
	refs int
}

// NewLoanLocker creates a new locker
func NewLoanLocker() *LoanLocker {
	return &LoanLocker{locks: make(map[uint]*loanLock)}
}

// Lock blocks until the loan is free and returns the matching unlock
func (l *LoanLocker) Lock(loanID uint) func() {
	l.mu.Lock()
	lk, ok := l.locks[loanID]
	if !ok {
		lk = &loanLock{}
		l.locks[loanID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()

		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, loanID)
		}
		l.mu.Unlock()
	}
}
