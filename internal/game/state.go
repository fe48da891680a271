package game

import (
	"github.com/l2core/backend/internal/ai"
	"github.com/l2core/backend/internal/constants"
	"github.com/l2core/backend/internal/model"
	"github.com/l2core/backend/internal/navmesh"
	"github.com/l2core/backend/internal/wire"
	"github.com/l2core/backend/internal/zone"
)

// GatewaySender is the outbound half of Game's single Gateway link (spec
// §4.4). Implemented by the gslistener-style S2S session in server.go;
// abstracted here so Simulation doesn't need to know about net.Conn.
type GatewaySender interface {
	SendMoveRes(res wire.GameGatewayMoveRes)
	SendAttackRes(res wire.GameGatewayAttackRes)
}

// Simulation owns the Zone index and the player/monster tables (spec §3,
// §4.4). Every exported method here is only ever safe to call from the
// Executor goroutine (spec §3 invariant 6) — the S2S handlers in
// server.go and RunTickLoop in tick.go post through Executor.Post first.
type Simulation struct {
	zone *zone.Zone
	nav  *navmesh.Adapter
	gw   GatewaySender

	players      map[string]*model.PlayerInfo // account id -> info
	uidToAccount map[uint32]string
	monsters     map[uint32]*model.Monster

	nextPlayerUID  uint32
	nextMonsterUID uint32

	maxHP int32
}

// NewSimulation creates an empty Simulation over the given Zone, using nav
// for monster pathing and gw to reach Gateway.
func NewSimulation(z *zone.Zone, nav *navmesh.Adapter, gw GatewaySender) *Simulation {
	return &Simulation{
		zone:           z,
		nav:            nav,
		gw:             gw,
		players:        make(map[string]*model.PlayerInfo),
		uidToAccount:   make(map[uint32]string),
		monsters:       make(map[uint32]*model.Monster),
		nextPlayerUID:  1,
		nextMonsterUID: constants.MonsterUIDBase,
		maxHP:          100,
	}
}

// SpawnMonster creates a monster at (x, y) with the given combat stats and
// returns its MonsterUID. Monsters are created at Game startup and never
// destroyed (spec §3: "respawn is in-place").
func (s *Simulation) SpawnMonster(x, y int32, maxHP int32, attackPower int32, attackRange, attackCooldown, speed float64) uint32 {
	uid := s.nextMonsterUID
	s.nextMonsterUID++

	m := &model.Monster{
		UID: uid, X: x, Y: y, SpawnX: x, SpawnY: y,
		State: model.StateIdle,
		HP:    maxHP, MaxHP: maxHP,
		AttackPower: attackPower, AttackRange: attackRange,
		AttackCooldown: attackCooldown, Speed: speed,
	}
	s.monsters[uid] = m
	s.zone.Enter(uid, x, y)
	return uid
}

// simWorld adapts Simulation to ai.World, restricting PlayersInAOI to
// actual player uids (spec §4.6: monsters aggro players, not each other).
type simWorld struct{ s *Simulation }

func (w simWorld) PlayersInAOI(x, y int32) []uint32 {
	all := w.s.zone.GetPlayersInAOI(x, y)
	out := all[:0]
	for _, uid := range all {
		if uid < constants.MonsterUIDBase {
			out = append(out, uid)
		}
	}
	return out
}

func (w simWorld) PlayerPosition(uid uint32) (int32, int32, bool) {
	accountID, ok := w.s.uidToAccount[uid]
	if !ok {
		return 0, 0, false
	}
	p, ok := w.s.players[accountID]
	if !ok {
		return 0, 0, false
	}
	return p.X, p.Y, true
}

// pathfinder adapts *navmesh.Adapter to ai.Pathfinder.
type pathfinder struct{ nav *navmesh.Adapter }

func (pf pathfinder) FindPath(start, end navmesh.Point) []navmesh.Point {
	return pf.nav.FindPath(start, end)
}

func (s *Simulation) aiWorld() ai.World          { return simWorld{s} }
func (s *Simulation) aiPathfinder() ai.Pathfinder { return pathfinder{s.nav} }

// buildBroadcastTargets implements spec §4.8's recipient-list rule: every
// uid in the 3x3 AOI neighbourhood of (x, y) that is a player (uid <
// MonsterUIDBase), translated to account ids.
func (s *Simulation) buildBroadcastTargets(x, y int32) []string {
	uids := s.zone.GetPlayersInAOI(x, y)
	targets := make([]string, 0, len(uids))
	for _, uid := range uids {
		if uid >= constants.MonsterUIDBase {
			continue
		}
		if accountID, ok := s.uidToAccount[uid]; ok {
			targets = append(targets, accountID)
		}
	}
	return targets
}

// sendMoveRes/sendAttackRes guard against the window before Gateway's
// first connection (or a disconnect/reconnect gap) where s.gw is nil —
// the tick loop and S2S handlers run regardless of whether a link is
// currently attached.
func (s *Simulation) sendMoveRes(res wire.GameGatewayMoveRes) {
	if s.gw == nil {
		return
	}
	s.gw.SendMoveRes(res)
}

func (s *Simulation) sendAttackRes(res wire.GameGatewayAttackRes) {
	if s.gw == nil {
		return
	}
	s.gw.SendAttackRes(res)
}
