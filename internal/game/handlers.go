package game

import (
	"github.com/l2core/backend/internal/model"
	"github.com/l2core/backend/internal/wire"
)

// playerAttackDamage is the flat damage a client-initiated attack deals;
// the spec leaves player damage unspecified (§4.3's AttackReq is "optional
// in current core"), so this is a fixed placeholder rather than a stat
// system.
const playerAttackDamage int32 = 10

// HandleMoveReq implements spec §4.4's Gateway->Game MoveReq: lazily joins
// an unseen account as a new player, otherwise updates its Zone sector and
// position, then broadcasts the new position to its AOI. Must only be
// called on the game executor.
func (s *Simulation) HandleMoveReq(req wire.GatewayGameMoveReq) {
	p, known := s.players[req.AccountID]

	if _, _, inBounds := s.zone.SectorOf(req.X, req.Y); !inBounds {
		// Out-of-bounds coordinates are a no-op (spec §7): a known player
		// stays at its last valid position/sector; an unseen account has
		// no valid sector to join into at all.
		return
	}

	if !known {
		uid := s.nextPlayerUID
		s.nextPlayerUID++

		p = &model.PlayerInfo{
			UID: uid, AccountID: req.AccountID,
			X: req.X, Y: req.Y, Z: req.Z, Yaw: req.Yaw,
			HP: s.maxHP, MaxHP: s.maxHP,
		}
		s.players[req.AccountID] = p
		s.uidToAccount[uid] = req.AccountID
		s.zone.Enter(uid, req.X, req.Y)
	} else {
		oldX, oldY := p.X, p.Y
		p.X, p.Y, p.Z, p.Yaw = req.X, req.Y, req.Z, req.Yaw
		s.zone.UpdatePosition(p.UID, oldX, oldY, req.X, req.Y)
	}

	targets := s.buildBroadcastTargets(p.X, p.Y)
	if len(targets) == 0 {
		return
	}
	s.sendMoveRes(wire.GameGatewayMoveRes{
		AccountID:        p.AccountID,
		X:                p.X, Y: p.Y, Z: p.Z, Yaw: p.Yaw,
		TargetAccountIDs: targets,
	})
}

// HandleLeaveReq implements spec §4.4's Gateway->Game LeaveReq: idempotent
// eviction of a player's entity from the Zone and tables.
func (s *Simulation) HandleLeaveReq(req wire.GatewayGameLeaveReq) {
	p, ok := s.players[req.AccountID]
	if !ok {
		return
	}
	s.zone.Leave(p.UID, p.X, p.Y)
	delete(s.uidToAccount, p.UID)
	delete(s.players, req.AccountID)
}

// HandleAttackReq implements the optional client-initiated attack path
// (§6: CLIENT_GATEWAY_ATTACK_RES schema) for symmetry with monster attacks:
// a player striking a monster. Present for schema completeness; the core's
// combat narrative (§4.6, §4.7) is monster-initiated.
func (s *Simulation) HandleAttackReq(req wire.GatewayGameAttackReq) {
	attacker, ok := s.players[req.AccountID]
	if !ok {
		return
	}
	target, ok := s.monsters[req.TargetUID]
	if !ok {
		return
	}
	if target.HP <= 0 {
		return
	}

	remainHP := target.HP - playerAttackDamage
	if remainHP < 0 {
		remainHP = 0
	}
	target.HP = remainHP

	targets := s.buildBroadcastTargets(attacker.X, attacker.Y)
	if len(targets) == 0 {
		return
	}
	s.sendAttackRes(wire.GameGatewayAttackRes{
		AttackerUID:      attacker.UID,
		TargetUID:        target.UID,
		TargetAccountID:  "",
		Damage:           playerAttackDamage,
		TargetRemainHP:   remainHP,
		TargetAccountIDs: targets,
	})
}
