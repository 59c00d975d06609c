//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package middleware

import "time"

func processCPU() time.Duration {
	return 0
}
