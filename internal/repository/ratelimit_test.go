package repository

import (
	"github.com/harborline/loanserve/internal/jobs"
	"github.com/harborline/loanserve/internal/ratelimit"
)

// The repository is the SQL fallback counter store and the sweeper's
// source of expired rows; both wirings are checked at compile time.
var (
	_ ratelimit.CounterStore = (*Repository)(nil)
	_ jobs.CounterStore      = (*Repository)(nil)
)
