// Package sim provides the core discrete-time engine for the commons simulation.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - consumer.go: Consumer state machine (idle → holding → idle) and release feedback
//   - resource.go: Resource occupancy and its acquire/release contract
//   - simulator.go: The tick loop, shuffled activation, and invariant checks
//
// # Architecture
//
// The sim package owns agents and the tick loop; supporting code lives in
// sub-packages:
//   - sim/psychology/: Pure trust, satisfaction, autonomy and cooperation formulas
//   - sim/grid/: Spatial placement service (agents are placed once, never read back)
//   - sim/trace/: Decision trace recording
//   - sim/snapshot/: Current-state store (SQLite)
//
// Resources and Consumers never hold pointers to each other. Each keeps the
// other's integer ID and the Simulation resolves IDs through its lookup tables.
//
// # Determinism
//
// All randomness flows from one seed through PartitionedRNG: placement,
// population weights, activation order and consumer decisions each draw from
// their own stream. Same seed + same Config ⇒ identical run.
package sim
