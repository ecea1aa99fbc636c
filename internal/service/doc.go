// Package service contains the application use cases for training plans and
// cycles. It orchestrates domain aggregates and the stores defined in
// internal/store to fulfill the operations exposed by the API and the CLI.
//
// Key responsibilities:
//
//   - Assign identifiers and timestamps to incoming data and validate it
//     before anything is persisted; the stores themselves never validate.
//   - Enforce profile ownership: every operation takes the caller's profile
//     id and treats resources of other profiles as inaccessible.
//   - Apply transactional boundaries when one use case spans several stores,
//     for example pruning sessions that an update removed from a plan.
//
// Services depend only on the store interfaces, never on a concrete
// database implementation.
package service
