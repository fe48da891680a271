// Package ai implements the monster finite-state machine and its
// per-monster tick step (spec §4.6, §4.7); the periodic scheduler that
// drives it is game.Simulation.RunTickLoop.
//
// State names and the callback-shaped attack hook are taken directly from
// original_source/GameServer/Monster/Monster.h's MonsterState enum
// (IDLE/CHASE/ATTACK/RETURN) and on_attack_callback_, per spec §9's
// decision to follow the original's 4-state union rather than la2go's
// richer Intention model.
package ai

import (
	"math"

	"github.com/l2core/backend/internal/model"
	"github.com/l2core/backend/internal/navmesh"
)

// World is the read surface the FSM needs from the Game simulation.
// Implemented by the game package's executor-bound state; every method is
// only ever called from the game executor (spec §3 invariant 6, §5).
type World interface {
	// PlayersInAOI returns player uids (not monsters) within the 3x3
	// sector neighbourhood of (x, y).
	PlayersInAOI(x, y int32) []uint32
	// PlayerPosition returns a player's current position, or ok=false if
	// the uid is no longer present (left, disconnected).
	PlayerPosition(uid uint32) (x, y int32, ok bool)
}

// Pathfinder is the subset of navmesh.Adapter the FSM depends on.
type Pathfinder interface {
	FindPath(start, end navmesh.Point) []navmesh.Point
}

// AttackFunc fires a monster's attack against a target. Evaluated
// synchronously on the game executor; mutates target hp, detects death,
// respawns, and emits broadcasts (spec §4.6, §4.7).
type AttackFunc func(attackerUID, targetUID uint32, damage int32)

func distSq(x1, y1, x2, y2 int32) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return dx*dx + dy*dy
}

// Tick evaluates one FSM transition for m, then advances its kinematics by
// dt seconds (spec §4.7 step 2). Returns true if the monster moved more
// than MoveEpsilon this tick, so the caller can decide whether to call
// Zone.UpdatePosition and accumulate the network sync timer.
func Tick(m *model.Monster, dt float64, w World, pf Pathfinder, attack AttackFunc) (moved bool) {
	evaluateTransition(m, dt, w, pf, attack)
	return advance(m, dt)
}

func evaluateTransition(m *model.Monster, dt float64, w World, pf Pathfinder, attack AttackFunc) {
	switch m.State {
	case model.StateIdle:
		tryAggro(m, w, pf)

	case model.StateChase:
		tx, ty, ok := w.PlayerPosition(m.TargetUID)
		if !ok {
			returnHome(m, pf)
			return
		}
		if distSq(m.X, m.Y, tx, ty) > GiveUpDist*GiveUpDist {
			returnHome(m, pf)
			return
		}
		if distSq(m.X, m.Y, tx, ty) <= m.AttackRange*m.AttackRange {
			m.State = model.StateAttack
			m.Path = nil
			return
		}
		if distSq(tx, ty, m.TargetLastX, m.TargetLastY) > PathReplanEps*PathReplanEps {
			replan(m, pf, tx, ty)
		}

	case model.StateAttack:
		tx, ty, ok := w.PlayerPosition(m.TargetUID)
		if !ok {
			returnHome(m, pf)
			return
		}
		if distSq(m.X, m.Y, tx, ty) > m.AttackRange*m.AttackRange {
			m.State = model.StateChase
			replan(m, pf, tx, ty)
			return
		}
		m.AttackTimer += dt
		if m.AttackTimer >= m.AttackCooldown {
			attack(m.UID, m.TargetUID, m.AttackPower)
			m.AttackTimer = 0
		}

	case model.StateReturn:
		if atSpawn(m) || len(m.Path) == 0 {
			m.X, m.Y = m.SpawnX, m.SpawnY
			m.Path = nil
			m.State = model.StateIdle
			m.TargetHasUID = false
		}
	}
}

func tryAggro(m *model.Monster, w World, pf Pathfinder) {
	for _, uid := range w.PlayersInAOI(m.X, m.Y) {
		x, y, ok := w.PlayerPosition(uid)
		if !ok {
			continue
		}
		if distSq(m.X, m.Y, x, y) <= AggroDist*AggroDist {
			m.TargetUID = uid
			m.TargetHasUID = true
			m.State = model.StateChase
			replan(m, pf, x, y)
			return
		}
	}
}

func replan(m *model.Monster, pf Pathfinder, targetX, targetY int32) {
	m.TargetLastX, m.TargetLastY = targetX, targetY
	points := pf.FindPath(navmesh.Point{X: m.X, Y: m.Y}, navmesh.Point{X: targetX, Y: targetY})

	m.Path = make([]model.Waypoint, len(points))
	for i, p := range points {
		m.Path[i] = model.Waypoint{X: p.X, Y: p.Y}
	}

	// If the 0th waypoint already lies within ArrivalEps, start at index 1
	// to avoid sub-tick jitter (spec §4.6).
	m.PathIndex = 0
	if len(m.Path) > 0 && distSq(m.X, m.Y, m.Path[0].X, m.Path[0].Y) <= ArrivalEps*ArrivalEps && len(m.Path) > 1 {
		m.PathIndex = 1
	}
}

// ForceReturn drops m's current target and aggro state and forces it into
// StateReturn, replanning a path home immediately. Exposed for admin/test
// use (spec §4.6) — the tick loop never calls this itself; it only reaches
// StateReturn via the give-up branches of evaluateTransition.
func ForceReturn(m *model.Monster, pf Pathfinder) {
	returnHome(m, pf)
}

func returnHome(m *model.Monster, pf Pathfinder) {
	m.State = model.StateReturn
	m.TargetHasUID = false
	replan(m, pf, m.SpawnX, m.SpawnY)
}

func atSpawn(m *model.Monster) bool {
	return distSq(m.X, m.Y, m.SpawnX, m.SpawnY) <= ArrivalEps*ArrivalEps
}

// advance moves m along its current path by dt seconds at m.Speed.
// Returns whether the move exceeded MoveEpsilon (spec §4.7 step 2).
func advance(m *model.Monster, dt float64) bool {
	if m.State == model.StateAttack {
		return false // stopped moving, per the CHASE->ATTACK transition
	}
	if m.PathIndex >= len(m.Path) {
		return false
	}

	target := m.Path[m.PathIndex]
	dx := float64(target.X - m.X)
	dy := float64(target.Y - m.Y)
	dist := math.Hypot(dx, dy)

	if dist <= ArrivalEps {
		m.PathIndex++
		return false
	}

	step := m.Speed * dt
	if step >= dist {
		oldX, oldY := m.X, m.Y
		m.X, m.Y = target.X, target.Y
		m.PathIndex++
		return moveExceedsEpsilon(oldX, oldY, m.X, m.Y)
	}

	oldX, oldY := m.X, m.Y
	m.X += int32(dx / dist * step)
	m.Y += int32(dy / dist * step)
	return moveExceedsEpsilon(oldX, oldY, m.X, m.Y)
}

func moveExceedsEpsilon(oldX, oldY, newX, newY int32) bool {
	dx := math.Abs(float64(newX - oldX))
	dy := math.Abs(float64(newY - oldY))
	return dx > MoveEpsilon || dy > MoveEpsilon
}
