package stripedmap

import "errors"

// ErrKeyNotFound is returned by At when the map holds no entry for the key.
// Use errors.Is to test for it; the returned error also names the key.
var ErrKeyNotFound = errors.New("stripedmap: key not found")
