package utils

// Guard runs cleanup when a function that creates something, such as an output file, fails
// part way through. Usage:
//
//	guard := NewGuard(func() { RemoveFileNoError(path) })
//	defer guard.OnFail()
//	if err := write(); err != nil { return err }
//	guard.Success()
//	return nil
type Guard struct {
	OnFail  func()
	success bool
}

// NewGuard returns a Guard that calls onFailCleanup from OnFail unless Success was called.
func NewGuard(onFailCleanup func()) *Guard {
	ret := &Guard{}
	ret.OnFail = func() {
		if !ret.success {
			onFailCleanup()
		}
	}
	return ret
}

// Success marks the guarded work as done so OnFail does nothing.
func (guard *Guard) Success() {
	guard.success = true
}
