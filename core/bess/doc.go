// Package bess simulates a vessel's battery energy storage system one time
// step at a time.
//
// ComputeTransfer decides how much energy a charge, discharge or idle
// decision moves over a step, clamped so the state of charge never leaves
// [floor, capacity]. It does not mutate the state: ApplyTransfer commits a
// transfer separately so callers can log, price or discard it first. Run
// chains both over a decision sequence and returns the trajectory.
package bess
