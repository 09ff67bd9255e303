package intake

import "errors"

var (
	// ErrKeyNotFound is returned by a KeyValue when nothing is stored under the key.
	ErrKeyNotFound = errors.New("intake: key not found")

	// ErrStorageUnavailable wraps any failure of the backing store.
	ErrStorageUnavailable = errors.New("intake: storage unavailable")

	// ErrCorruptRecord is returned when the stored value cannot be decoded.
	ErrCorruptRecord = errors.New("intake: corrupt persisted record")

	// ErrClosed is returned when input arrives while the dialog is closed.
	ErrClosed = errors.New("intake: wizard is closed")

	// ErrStepMismatch is returned when input targets a step that is not showing.
	ErrStepMismatch = errors.New("intake: input does not match current step")

	// ErrUnknownOption is returned for option values outside the closed sets.
	ErrUnknownOption = errors.New("intake: unknown option")

	// ErrUnknownAction is returned when the chosen action is not offered on step 3.
	ErrUnknownAction = errors.New("intake: unknown action")
)
