package client

import "fmt"

// StorageError wraps a failure of the client store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("client store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
