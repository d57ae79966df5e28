// Package assert implements the engine's structural invariant checks. Unlike an
// ordinary recoverable error, a failed assertion here means the board/search state
// has become internally inconsistent and there is no safe way to keep playing.
package assert

import (
	"context"
	"fmt"
	"runtime"

	"github.com/seekerror/logw"
)

// Notifier is implemented by anything that can relay a last-gasp diagnostic to the
// external protocol peer before the process halts.
type Notifier interface {
	NotifyFatal(msg string)
}

var notifier Notifier

// SetNotifier registers the peer-notification hook. Halt without registering one
// still prints to stderr and exits.
func SetNotifier(n Notifier) {
	notifier = n
}

// That halts the process if cond is false, printing the failing expression, file,
// line and calling function, mirroring bistromath's assert.h. There is no recovery
// path: a violated invariant (bad occupancy, a corrupt undo stack, a torn hash) is
// not safe to keep searching or playing on.
func That(ctx context.Context, cond bool, expr string) {
	if cond {
		return
	}

	_, file, line, _ := runtime.Caller(1)
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	fname := "?"
	if fn != nil {
		fname = fn.Name()
	}

	msg := fmt.Sprintf("assertion failed: %v (%v:%v in %v)", expr, file, line, fname)
	logw.Errorf(ctx, "%v", msg)
	if notifier != nil {
		notifier.NotifyFatal(msg)
	}
	panic(msg)
}
