// Package frame reprojects a history into a boosted reference frame.
//
// Events live on a GraphSize x GraphSize plane: the horizontal axis is system
// time scaled to [0, GraphSize], and each client has a fixed vertical lane.
// A stretch factor s picks a skewed basis (I, J). Each event is slid along J
// until it meets the I axis; its distance from the origin along I becomes
// its new system time. s = 1 gives the orthonormal basis, the identity.
//
// At s = 0 and s*s >= 2 the two basis vectors are collinear and the
// intersection is undefined. Both cases take the limiting value the
// projection approaches from the valid side, so the transform is continuous
// in s everywhere on [0, inf).
package frame
