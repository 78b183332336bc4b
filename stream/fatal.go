package stream

import "github.com/kbukum/iterflow/logging"

// fatalDoubleCallback reports a double invocation of a done
// callback — a programming error this package cannot recover from at the
// call site. reportSourceBindError sends source-binding errors down the
// same fatal path.
func fatalDoubleCallback(where string) {
	logging.Global().Fatal("callback invoked more than once", map[string]any{"hook": where})
}
