// pkg/database/lock.go
package database

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// writeLockOwner stamps f, which the caller has just acquired an
// exclusive OS-level lock on, with identifying information about this
// process. A process that loses a subsequent lock attempt can then
// report who actually holds the data directory instead of a bare
// "locked" error.
func writeLockOwner(f *os.File) error {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	stamp := fmt.Sprintf("pid=%d host=%s opened=%s\n", os.Getpid(), host, time.Now().UTC().Format(time.RFC3339))
	if err := f.Truncate(int64(len(stamp))); err != nil {
		return err
	}
	if _, err := f.WriteAt([]byte(stamp), 0); err != nil {
		return err
	}
	return f.Sync()
}

// clearLockOwner blanks the stamp written by writeLockOwner. Called on
// a clean unlock so a stale stamp never outlives the process that wrote
// it; failures are not fatal since the OS lock is already released.
func clearLockOwner(f *os.File) {
	f.Truncate(0)
}

// describeLockOwner reads back the stamp writeLockOwner left in f, for
// use in the error reported to a process that loses the lock race. A
// missing or unreadable stamp (lock file predates this format, or a
// read raced the owner's write) falls back to a generic description.
func describeLockOwner(f *os.File) string {
	buf := make([]byte, 256)
	n, err := f.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return "another process"
	}
	line := strings.TrimSpace(string(buf[:n]))
	if line == "" {
		return "another process"
	}
	return line
}
