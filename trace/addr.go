package trace

import "unsafe"

// addrOf returns the address of p's backing array, for overlap checks.
func addrOf(p []byte) uintptr {
	return uintptr(unsafe.Pointer(&p[0]))
}
