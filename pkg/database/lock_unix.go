//go:build !windows

// pkg/database/lock_unix.go
package database

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockFile acquires an exclusive lock on the given file and stamps it
// with this process's identity (see writeLockOwner). Returns
// ErrDatabaseLocked, annotated with the current holder's stamp, if
// another process already owns the data directory.
func lockFile(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		if err == unix.EWOULDBLOCK {
			return fmt.Errorf("%w: held by %s", ErrDatabaseLocked, describeLockOwner(f))
		}
		return err
	}
	return writeLockOwner(f)
}

// unlockFile clears this process's ownership stamp and releases the
// lock on the given file.
func unlockFile(f *os.File) error {
	clearLockOwner(f)
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
