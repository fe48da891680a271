package game

import (
	"fmt"
	"time"

	"github.com/l2core/backend/internal/ai"
	"github.com/l2core/backend/internal/model"
	"github.com/l2core/backend/internal/wire"
)

// RunTickLoop starts the periodic AI tick (spec §4.7) on exec, evaluating
// at ai.TickInterval until stop is closed. Every tick runs as one posted
// closure, so it can never interleave with an S2S handler (spec §5).
func (s *Simulation) RunTickLoop(exec *Executor, stop <-chan struct{}) {
	ticker := time.NewTicker(ai.TickInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			exec.Post(func() {
				s.tick(dt)
			})
		}
	}
}

// tick advances every monster by dt seconds: FSM transition, kinematics,
// Zone maintenance, and the periodic network-sync broadcast (spec §4.7
// steps 1-3). Must only run on the game executor.
func (s *Simulation) tick(dt float64) {
	world := s.aiWorld()
	pf := s.aiPathfinder()
	attack := s.attackFunc()

	for uid, m := range s.monsters {
		oldX, oldY := m.X, m.Y
		moved := ai.Tick(m, dt, world, pf, attack)

		if moved {
			s.zone.UpdatePosition(uid, oldX, oldY, m.X, m.Y)
			m.SyncTimer += dt
		}

		if m.SyncTimer >= ai.NetworkSyncInterval.Seconds() {
			s.broadcastMonsterSync(m)
			m.SyncTimer = 0
		}
	}
}

// broadcastMonsterSync emits a Game->GW MoveRes for monster m under a
// synthetic account id, bandwidth-saving batched position sync (spec
// §4.7 step 3).
func (s *Simulation) broadcastMonsterSync(m *model.Monster) {
	targets := s.buildBroadcastTargets(m.X, m.Y)
	if len(targets) == 0 {
		return
	}
	s.sendMoveRes(wire.GameGatewayMoveRes{
		AccountID:        fmt.Sprintf("MONSTER_%d", m.UID),
		X:                m.X, Y: m.Y, Z: m.Z, Yaw: m.Yaw,
		TargetAccountIDs: targets,
	})
}
