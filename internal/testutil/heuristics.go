package testutil

import "time"

// PollingInterval is the default interval between condition checks in Poll
// and WaitForState.
const PollingInterval = 10 * time.Millisecond

// WaitTimeout bounds how long a test waits on an in-process fake server
// round trip or a store transition.
const WaitTimeout = 5 * time.Second

// QuietPeriod is how long a "nothing else arrives" check waits.
const QuietPeriod = 50 * time.Millisecond
