// Package services implements the service lifecycle layer: the descriptor
// registry, the transition executors, and the lifecycle controller that
// performs single start/stop/restart/health-check actions with
// timeout-bounded state polling.
//
// Execution is abstracted behind the TransitionExecutor interface. The
// SystemdExecutor controls units on the local machine over D-Bus; the
// SSHExecutor reaches remote hosts and drives systemctl there. The factory
// picks one per descriptor based on whether the host resolves to the local
// machine.
//
// The controller is deliberately dumb about ordering: it acts on one service
// at a time. Sequencing across services belongs to the orchestrator and the
// dependency package.
package services
