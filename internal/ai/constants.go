package ai

import "time"

// FSM tuning constants (spec §4.6, §9).
//
// spec §9 Open Questions notes the original source carries multiple
// divergent monster managers with aggro distances of 0.1, 1.0, and 3.0,
// and asks an implementer to pick one and document it: this rewrite picks
// 3.0 world units, the largest of the three, since it is the only value
// that produces a usable aggro radius at this spec's sector_size scale
// (the default ZoneConfig ships 50-unit sectors; 0.1 or 1.0 would make a
// monster's aggro radius effectively zero at that granularity). See
// DESIGN.md.
const (
	AggroDist      = 3.0
	GiveUpDist     = 9.0
	PathReplanEps  = 1.0
	ArrivalEps     = 0.5
	MoveEpsilon    = 0.1
	AttackRangeDef = 1.5

	NetworkSyncInterval = 2 * time.Second
	TickInterval        = 100 * time.Millisecond
)
