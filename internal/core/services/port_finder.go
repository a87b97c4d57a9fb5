package services

import (
	"fmt"
	"net"
	"strconv"
)

// FindAvailablePort returns the first port in [startPort, endPort] that can be
// bound on host.
func FindAvailablePort(host string, startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
