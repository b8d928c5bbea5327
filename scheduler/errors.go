package scheduler

import (
	"fmt"

	"github.com/wyvernlang/fiberscheme/fiber"
)

// errFiberNotFound reports an operation against an ID the scheduler has
// never seen or has already reaped.
func errFiberNotFound(id fiber.ID) error {
	return fmt.Errorf("scheduler: fiber %d not found", id)
}

// errNotSuspended reports a Resume call against a fiber that is not
// currently Suspended; only Suspended fibers may be resumed.
func errNotSuspended(id fiber.ID) error {
	return fmt.Errorf("scheduler: fiber %d is not suspended", id)
}
