// Package entities provides core domain types for deferred system-dialog actions.
// These are plain values shared by the gate, the pending store and the coordinator;
// platform specifics stay behind the ports package.
package entities
