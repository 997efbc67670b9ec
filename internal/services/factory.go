package services

import (
	"os"
	"strings"

	"cutover/internal/config"
)

// NewExecutorFactory returns the default executor selection: descriptors
// whose host resolves to the local machine get systemd D-Bus control, all
// others go through SSH. Both executors are shared across services.
func NewExecutorFactory() ExecutorFactory {
	local := NewSystemdExecutor()
	remote := NewSSHExecutor()
	hostname, _ := os.Hostname()

	return func(svc config.ServiceDescriptor) (TransitionExecutor, error) {
		if isLocalHost(svc.Host, hostname) {
			return local, nil
		}
		return remote, nil
	}
}

// isLocalHost reports whether the descriptor host names this machine. Short
// and fully qualified spellings of the local hostname both count.
func isLocalHost(host, hostname string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	if hostname == "" {
		return false
	}
	if strings.EqualFold(host, hostname) {
		return true
	}
	shortHost, _, _ := strings.Cut(host, ".")
	shortLocal, _, _ := strings.Cut(hostname, ".")
	return strings.EqualFold(shortHost, shortLocal)
}
