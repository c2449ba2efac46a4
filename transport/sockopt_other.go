//go:build !unix

package transport

import "syscall"

func reuseAddr(string, string, syscall.RawConn) error {
	return nil
}
