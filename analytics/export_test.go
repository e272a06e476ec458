package analytics

// SetInTestBinary overrides test-binary detection and returns a restore func.
func SetInTestBinary(v bool) func() {
	prev := inTestBinary
	inTestBinary = func() bool { return v }
	return func() { inTestBinary = prev }
}
