// Package clock provides a small time abstraction.
//
// Challenge expiry and cooldown decisions are pure functions of the current
// time, so injecting a Clocker keeps those code paths deterministic in tests.
package clock
