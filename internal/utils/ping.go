package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingService checks that something accepts TCP connections at serviceURL
func PingService(serviceURL string, timeout time.Duration) error {
	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := parsedURL.Port()
	if port == "" {
		switch parsedURL.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	address := net.JoinHostPort(host, port)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// LocalURL is the address a process on this host uses to reach the server on port
func LocalURL(port string) string {
	return "http://" + net.JoinHostPort("127.0.0.1", port)
}
