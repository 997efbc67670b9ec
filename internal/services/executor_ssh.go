package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/pkg/logging"
)

// sshRunner executes commands on one remote host. Each call dials a fresh
// connection with retries and linear backoff; cutover actions are infrequent
// enough that connection pooling is not worth the state.
type sshRunner struct {
	addr       string
	user       string
	signer     xssh.Signer
	knownHosts xssh.HostKeyCallback
	timeout    time.Duration
	retries    int
	backoff    time.Duration
}

func newSSHRunner(target config.SSHTarget) (*sshRunner, error) {
	keyData, err := os.ReadFile(target.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read ssh key %s: %w", target.KeyFile, err)
	}
	signer, err := xssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key %s: %w", target.KeyFile, err)
	}

	hostKeyCallback, err := loadKnownHosts(target.KnownHostsFile)
	if err != nil {
		return nil, err
	}

	return &sshRunner{
		addr:       target.Addr,
		user:       target.User,
		signer:     signer,
		knownHosts: hostKeyCallback,
		timeout:    15 * time.Second,
		retries:    2,
		backoff:    500 * time.Millisecond,
	}, nil
}

func loadKnownHosts(path string) (xssh.HostKeyCallback, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve known_hosts location: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", path, err)
	}
	return callback, nil
}

func (r *sshRunner) clientConfig() *xssh.ClientConfig {
	return &xssh.ClientConfig{
		User:            r.user,
		Auth:            []xssh.AuthMethod{xssh.PublicKeys(r.signer)},
		HostKeyCallback: r.knownHosts,
		Timeout:         r.timeout,
	}
}

// run executes a remote command with retries and basic backoff, returning the
// combined output.
func (r *sshRunner) run(ctx context.Context, command string) (string, error) {
	cfg := r.clientConfig()
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		cli, err := xssh.Dial("tcp", r.addr, cfg)
		if err != nil {
			lastErr = err
		} else {
			session, err := cli.NewSession()
			if err == nil {
				output, err := session.CombinedOutput(command)
				session.Close()
				if err == nil {
					cli.Close()
					return string(output), nil
				}
				lastErr = fmt.Errorf("run %q: %w: %s", command, err, strings.TrimSpace(string(output)))
			} else {
				lastErr = fmt.Errorf("new session: %w", err)
			}
			cli.Close()
		}

		if attempt < r.retries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.backoff * time.Duration(attempt+1)):
			}
		}
	}
	return "", lastErr
}

// SSHExecutor controls units on remote hosts by running systemctl over SSH.
// Runners are created per host on first use and reused.
type SSHExecutor struct {
	mu      sync.Mutex
	runners map[string]*sshRunner
}

// NewSSHExecutor creates a remote executor.
func NewSSHExecutor() *SSHExecutor {
	return &SSHExecutor{runners: make(map[string]*sshRunner)}
}

func (e *SSHExecutor) runner(svc config.ServiceDescriptor) (*sshRunner, error) {
	if svc.SSH == nil {
		return nil, api.NewValidationError("ssh", "service %s on host %s has no ssh settings", svc.Name, svc.Host)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if r, ok := e.runners[svc.Host]; ok {
		return r, nil
	}
	r, err := newSSHRunner(*svc.SSH)
	if err != nil {
		return nil, err
	}
	e.runners[svc.Host] = r
	return r, nil
}

// ObserveState queries the remote unit state. The `|| true` keeps systemctl's
// nonzero exit for inactive units from masking the state output.
func (e *SSHExecutor) ObserveState(ctx context.Context, svc config.ServiceDescriptor) (api.ServiceState, error) {
	r, err := e.runner(svc)
	if err != nil {
		return api.StateUnknown, err
	}

	output, err := r.run(ctx, fmt.Sprintf("systemctl is-active %s || true", svc.Unit))
	if err != nil {
		return api.StateUnknown, err
	}
	return mapActiveState(strings.TrimSpace(output)), nil
}

// Start issues the remote start command.
func (e *SSHExecutor) Start(ctx context.Context, svc config.ServiceDescriptor) error {
	return e.systemctl(ctx, svc, fmt.Sprintf("systemctl start %s", svc.Unit))
}

// Stop issues the remote graceful stop command.
func (e *SSHExecutor) Stop(ctx context.Context, svc config.ServiceDescriptor) error {
	return e.systemctl(ctx, svc, fmt.Sprintf("systemctl stop %s", svc.Unit))
}

// Kill sends SIGKILL to the remote unit.
func (e *SSHExecutor) Kill(ctx context.Context, svc config.ServiceDescriptor) error {
	logging.Warn("SSHExecutor", "sending SIGKILL to unit %s on %s", svc.Unit, svc.Host)
	return e.systemctl(ctx, svc, fmt.Sprintf("systemctl kill -s SIGKILL %s", svc.Unit))
}

func (e *SSHExecutor) systemctl(ctx context.Context, svc config.ServiceDescriptor, command string) error {
	r, err := e.runner(svc)
	if err != nil {
		return err
	}
	if _, err := r.run(ctx, command); err != nil {
		return err
	}
	logging.Debug("SSHExecutor", "ran %q on %s", command, svc.Host)
	return nil
}

// Signals gathers remote state and resource observations from systemctl show.
func (e *SSHExecutor) Signals(ctx context.Context, svc config.ServiceDescriptor) (HealthSignals, error) {
	r, err := e.runner(svc)
	if err != nil {
		return HealthSignals{}, err
	}

	output, err := r.run(ctx, fmt.Sprintf("systemctl show %s --property=ActiveState,MainPID,MemoryCurrent,NRestarts", svc.Unit))
	if err != nil {
		return HealthSignals{}, err
	}
	return parseShowOutput(output), nil
}

// parseShowOutput decodes systemctl show's key=value lines.
func parseShowOutput(output string) HealthSignals {
	var signals HealthSignals
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "ActiveState":
			signals.State = mapActiveState(value)
		case "MainPID":
			if pid, err := strconv.Atoi(value); err == nil {
				signals.ProcessPresent = pid > 0
			}
		case "MemoryCurrent":
			// "[not set]" appears when accounting is off.
			if mem, err := strconv.ParseUint(value, 10, 64); err == nil {
				signals.MemoryBytes = mem
			}
		case "NRestarts":
			if n, err := strconv.ParseUint(value, 10, 32); err == nil {
				signals.Restarts = uint32(n)
			}
		}
	}
	return signals
}
