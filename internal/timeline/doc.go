// Package timeline decides where a dragged event may land on a history's
// timeline.
//
// Two coordinate spaces are involved. System time runs over [0, 100]; the
// timeline is Width location units wide, so location = time/100*Width.
// Every rule below is applied in location space, in this order:
//
//  1. Operation bound: a READ may not move past its ack, a WRITE or CAS may
//     not move before its send. Violations clamp to the bound.
//  2. Overlap: two locations overlap when 0 < |a-b| < ProximityWidth. Exact
//     coincidence does not count; see Overlaps.
//  3. Sticky zone: if the dragged event already sits exactly one
//     ProximityWidth from the event it overlaps, it was jumped there by the
//     previous move, and the proposal is ignored until the pointer leaves.
//  4. Jump past: otherwise an overlap moves the dragged event to the far
//     side of the blocking event, in the direction the pointer travels.
//  5. Bounds: a location outside [MinLocation, Width-ProximityWidth] is
//     rejected.
//
// Propose has no state beyond the event collection it is given. The sticky
// and jump rules are exported as functions of the current and proposed
// locations so they can be tested alone.
package timeline
