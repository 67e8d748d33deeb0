package udtf

// Manager is the `mgr*` the wrapper's user function call receives: the
// handle a UDTF implementation uses to size its pre-sized output, named
// after the ABI entry point it backs
// (TableFunctionManager_set_output_row_size) rather than a generic Go
// context, since output sizing is the manager's one job.
type Manager struct {
	outputRowSize int64
	sized         bool
}

// NewManager returns a fresh Manager for one UDTF invocation.
func NewManager() *Manager {
	return &Manager{}
}

// SetOutputRowSize implements TableFunctionManager_set_output_row_size
//: the wrapper calls this before invoking a pre-sized
// UDTF's user function, and the user function may read it back via
// OutputRowSize.
func (m *Manager) SetOutputRowSize(n int64) {
	m.outputRowSize = n
	m.sized = true
}

// OutputRowSize returns the row count set by SetOutputRowSize, or (0,
// false) if the UDTF is not pre-sized.
func (m *Manager) OutputRowSize() (int64, bool) {
	return m.outputRowSize, m.sized
}
