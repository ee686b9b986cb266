package orm

import "errors"

// ErrUnknownPreload is returned by All when Preload names a relation that
// was never registered.
var ErrUnknownPreload = errors.New("orm: unknown preload")
