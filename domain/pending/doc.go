// Package pending provides the stores that hold actions deferred behind the
// permission gate.
//
// Slot is the compatible single-slot store: a second deferral overwrites the
// first, and the first request never receives a callback. Queue keeps one
// action per correlation id and Rejecting refuses to overwrite; both exist for
// callers that cannot accept the lost request.
package pending
