// Package trajectory defines the log of simulation runs: one Record per run
// holding the initial and final battery state, every step and the summary.
// Implementations live in infra/store.
package trajectory
