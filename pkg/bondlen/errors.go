package bondlen

import "errors"

// ErrUnknownElement is returned in strict mode for a symbol that has neither
// a covalent radius nor an override.
var ErrUnknownElement = errors.New("bondlen: unknown element")
