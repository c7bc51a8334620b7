package loop

import "errors"

// ErrMonitorLost is returned by Run when the configured monitor id can
// no longer be resolved (spec §4.G Acquire state, §7). Fatal to this
// loop only; other monitors' loops are unaffected.
var ErrMonitorLost = errors.New("loop: monitor lost")

// ErrChannelClosed is returned by Run when the downstream
// model.CaptureResult channel has been closed by its consumer
// (spec §4.G, §7).
var ErrChannelClosed = errors.New("loop: downstream channel closed")
