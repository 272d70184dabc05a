// Package ports defines the interfaces the coordinator uses to reach the platform.
// The gate, the store and the coordinator depend on these abstractions; the
// infrastructure adapters and the native host implement them.
package ports
