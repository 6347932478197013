//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package hostinfo

import "runtime"

func localSystem() System {
	return System{
		Name:     osName(runtime.GOOS),
		Hostname: hostname(),
		Machine:  runtime.GOARCH,
	}
}
