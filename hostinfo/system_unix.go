//go:build linux || darwin || freebsd || netbsd || openbsd

package hostinfo

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func localSystem() System {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return genericSystem()
	}

	return System{
		Name:     unix.ByteSliceToString(u.Sysname[:]),
		Hostname: hostname(),
		Release:  unix.ByteSliceToString(u.Release[:]),
		Version:  unix.ByteSliceToString(u.Version[:]),
		Machine:  unix.ByteSliceToString(u.Machine[:]),
	}
}

func genericSystem() System {
	return System{
		Name:     osName(runtime.GOOS),
		Hostname: hostname(),
		Machine:  runtime.GOARCH,
	}
}
