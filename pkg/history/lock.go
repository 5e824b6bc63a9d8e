package history

import (
	"fmt"
	"os"

	"pricetrail/pkg/models"
)

// Lock is an exclusive run lock next to the history file. It prevents two
// concurrent runs from racing the read-modify-write of the whole document.
type Lock struct {
	path string
}

// AcquireLock creates historyPath + ".lock" exclusively. If the file already
// exists another run holds the lock and models.ErrLockHeld is returned.
func AcquireLock(historyPath string) (*Lock, error) {
	path := historyPath + ".lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, models.ErrLockHeld
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	return os.Remove(l.path)
}
