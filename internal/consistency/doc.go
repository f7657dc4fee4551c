// Package consistency decides whether a single-register, two-client history
// satisfies linearizability, sequential consistency or serializability.
//
// Every check works over one total order: the events sorted by system time,
// ties broken by id (ir.Events.BySystemTime). StoreValues replays that order
// against a register that starts at 0 and records the value each event saw.
//
// A CAS always installs its new value, whether or not its expected value
// matched. The mismatch is a verdict for the validators to reach, not a
// register behavior. Serializable depends on this: changing it changes which
// histories classify as serializable.
//
// All functions are pure. They borrow the collection and never mutate it.
package consistency
