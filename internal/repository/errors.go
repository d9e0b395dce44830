package repository

import "errors"

// ErrConflictoVersion is returned by versioned writes when the row changed
// since it was read.
var ErrConflictoVersion = errors.New("el registro fue modificado por otra operación")
