//go:build !fireworksdebug

package sim

// strictPool makes bad retires panic. Enabled with -tags fireworksdebug.
const strictPool = false
