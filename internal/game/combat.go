package game

import (
	"github.com/l2core/backend/internal/ai"
	"github.com/l2core/backend/internal/model"
	"github.com/l2core/backend/internal/wire"
)

// townX, townY is the respawn point every player is teleported to on death
// (spec §4.7: "move the player atomically in the Zone from (old_x, old_y)
// to (0, 0)").
const townX, townY int32 = 0, 0

// attackFunc returns the ai.AttackFunc bound to s, fired synchronously on
// the game executor whenever a monster's cooldown elapses in range (spec
// §4.6, §4.7). Only monster-on-player attacks go through it; the
// player-on-monster path is HandleAttackReq, which does not use it.
func (s *Simulation) attackFunc() ai.AttackFunc {
	return func(attackerUID, targetUID uint32, damage int32) {
		s.resolveAttack(attackerUID, targetUID, damage)
	}
}

func (s *Simulation) resolveAttack(attackerUID, targetUID uint32, damage int32) {
	attacker, ok := s.monsters[attackerUID]
	if !ok {
		return
	}
	accountID, ok := s.uidToAccount[targetUID]
	if !ok {
		return
	}
	target, ok := s.players[accountID]
	if !ok {
		return
	}

	remainHP := target.HP - damage
	if remainHP < 0 {
		remainHP = 0
	}
	target.HP = remainHP

	// Damage broadcast first, then (if the hit killed the target) the
	// respawn teleport — order matters (spec §4.7).
	s.broadcastAttack(attacker.X, attacker.Y, attackerUID, targetUID, accountID, damage, remainHP)

	if remainHP == 0 {
		s.respawnPlayer(accountID, target)
	}
}

func (s *Simulation) broadcastAttack(originX, originY int32, attackerUID, targetUID uint32, targetAccountID string, damage, remainHP int32) {
	targets := s.buildBroadcastTargets(originX, originY)
	if len(targets) == 0 {
		return // quiet suppression, spec §4.8
	}
	s.sendAttackRes(wire.GameGatewayAttackRes{
		AttackerUID:      attackerUID,
		TargetUID:        targetUID,
		TargetAccountID:  targetAccountID,
		Damage:           damage,
		TargetRemainHP:   remainHP,
		TargetAccountIDs: targets,
	})
}

// respawnPlayer teleports a dead player to town and restores full hp,
// atomically with the Zone move (spec §3 invariant 3, §4.7).
func (s *Simulation) respawnPlayer(accountID string, p *model.PlayerInfo) {
	oldX, oldY := p.X, p.Y
	p.X, p.Y, p.Z = townX, townY, 0
	p.HP = p.MaxHP
	s.zone.UpdatePosition(p.UID, oldX, oldY, p.X, p.Y)

	s.sendMoveRes(wire.GameGatewayMoveRes{
		AccountID:        accountID,
		X:                p.X, Y: p.Y, Z: p.Z, Yaw: p.Yaw,
		TargetAccountIDs: []string{accountID},
	})
}
