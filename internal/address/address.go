package address

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const DefaultHost = "0.0.0.0"

var errNoPort = errors.New("no port given")

type Address struct {
	Host string
	Port uint16
}

// Parse splits the address into the host and the port. An empty host stands for all
// the interfaces. Port 0 is legal and means the system picks a free port.
func Parse(addr string) (Address, error) {
	if !strings.Contains(addr, ":") {
		return Address{}, errNoPort
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Address{}, err
	}

	if len(port) == 0 {
		return Address{}, errNoPort
	}

	portNum, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("invalid port: %s", port)
	}

	if len(host) == 0 {
		host = DefaultHost
	}

	return Address{Host: host, Port: uint16(portNum)}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// Normalize fills in the default host if only the port is presented.
func Normalize(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return DefaultHost + addr
	}

	return addr
}
