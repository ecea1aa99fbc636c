// Package domain contains the training aggregates: applied exercises grouped
// into exercise groups, sessions, training plans and training cycles.
//
// Entities are immutable. They are created only through the HydrateX
// functions from their plain XData shapes, and every change goes through a
// CloneWithX method that returns a new value (plus new intermediate values
// along the path to the change) with UpdatedAt advanced. Validation is
// separate from construction: Validate never panics and reports every issue
// it finds.
package domain
