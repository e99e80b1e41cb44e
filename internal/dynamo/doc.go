// Package dynamo provides the shared primitives of the particle engine.
//
// The package defines the values every other layer agrees on:
//
//   - [Config]: physical and emission constants handed to a simulation
//   - [SimError]: error carrying the step and time it was raised at
//   - [ParallelFor]: chunked worker helper used by the integration phase
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	cfg.SubSteps = 8
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Config is a plain value and safe to copy. Nothing in this package holds
// mutable global state.
package dynamo
