//go:build fireworksdebug

package sim

const strictPool = true
