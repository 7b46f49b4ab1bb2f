// Package filter provides predicates deciding whether a log entry is
// dispatched.
//
// A Filter is a pure function of an entry: it has no side effects and
// its result does not depend on the order in which it is evaluated. A
// Chain evaluates its filters in order and stops at the first rejection.
//
// Built-in filters cover severity thresholds (Level), message types
// (Types), originating contexts (Contexts) and arbitrary CEL expressions
// (CEL).
package filter
