package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var emailCounter int64

// NewTestEmail returns a process-unique email address for fake accounts.
// Pass t.Name() to make addresses traceable per test.
func NewTestEmail(tname string) string {
	id := atomic.AddInt64(&emailCounter, 1)
	local := strings.NewReplacer("/", "-", " ", "_").Replace(strings.ToLower(tname))
	return fmt.Sprintf("%s-%d@example.com", local, id)
}
