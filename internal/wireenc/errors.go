package wireenc

import "errors"

// ErrUnsupportedForInput marks an encoder rejecting the pipeline's image
// shape for this format (e.g. JPEG requested on a non-RGB input). Callers
// detect it with errors.Is; the Planner does not call the encoder and maps
// no encoder error.
var ErrUnsupportedForInput = errors.New("wireenc: format unsupported for this image")
