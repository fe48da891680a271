package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l2core/backend/internal/zone"
)

func TestSectorOf_Boundaries(t *testing.T) {
	z := zone.New(1000, 1000, 50)

	_, _, ok := z.SectorOf(0, 0)
	require.True(t, ok)

	// half-open world: width/height themselves are out of bounds.
	_, _, ok = z.SectorOf(1000, 5)
	assert.False(t, ok)
	_, _, ok = z.SectorOf(5, 1000)
	assert.False(t, ok)

	_, _, ok = z.SectorOf(-1, 5)
	assert.False(t, ok)
}

func TestEnterLeave_Idempotent(t *testing.T) {
	z := zone.New(1000, 1000, 50)

	z.Enter(1, 5, 5)
	before := z.GetPlayersInAOI(5, 5)
	require.Contains(t, before, uint32(1))

	z.Leave(1, 5, 5)
	after := z.GetPlayersInAOI(5, 5)
	assert.NotContains(t, after, uint32(1))
}

func TestLeave_UnknownUID_NoOp(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)

	z.Leave(999, 5, 5) // never entered

	assert.ElementsMatch(t, []uint32{1}, z.GetPlayersInAOI(5, 5))
}

func TestUpdatePosition_IntraSector_Skipped(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)

	// (6,5) is still sector (0,0): a no-op grid-wise.
	z.UpdatePosition(1, 5, 5, 6, 5)

	assert.Contains(t, z.GetPlayersInAOI(6, 5), uint32(1))
}

func TestUpdatePosition_CrossSector(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)

	z.UpdatePosition(1, 5, 5, 60, 5) // sector (0,1) now

	assert.NotContains(t, z.GetPlayersInAOI(5, 5), uint32(1))
	assert.Contains(t, z.GetPlayersInAOI(60, 5), uint32(1))
}

// Scenario 2 (spec §8): two players in the same sector both see each
// other's move.
func TestGetPlayersInAOI_TwoPlayersSameSector(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5) // A
	z.Enter(2, 7, 5) // B

	z.UpdatePosition(2, 7, 5, 8, 5)

	aoi := z.GetPlayersInAOI(8, 5)
	assert.ElementsMatch(t, []uint32{1, 2}, aoi)
}

// Scenario 3 (spec §8): AOI cutoff across a 3x3 boundary.
func TestGetPlayersInAOI_Cutoff(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)   // sector (0,0)
	z.Enter(3, 160, 5) // sector (0,3)

	z.UpdatePosition(1, 5, 5, 6, 5)

	aoi := z.GetPlayersInAOI(6, 5)
	assert.Contains(t, aoi, uint32(1))
	assert.NotContains(t, aoi, uint32(3))
}

func TestGetPlayersInAOI_Corner(t *testing.T) {
	z := zone.New(100, 100, 50) // 2x2 sectors
	z.Enter(1, 0, 0)
	z.Enter(2, 60, 0)
	z.Enter(3, 0, 60)
	z.Enter(4, 60, 60)

	aoi := z.GetPlayersInAOI(0, 0)
	assert.ElementsMatch(t, []uint32{1, 2, 3, 4}, aoi)
}

func TestGetPlayersInAOI_OutOfBounds(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)

	assert.Nil(t, z.GetPlayersInAOI(-5, 5))
}

// UpdatePosition must no-op entirely when the new position is out of
// bounds: the entity stays indexed at its old sector rather than being
// dropped from the grid (spec §7).
func TestUpdatePosition_NewOutOfBounds_StaysAtOldSector(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)

	z.UpdatePosition(1, 5, 5, 2000, 5)

	assert.Contains(t, z.GetPlayersInAOI(5, 5), uint32(1))
}

func TestInvariant_SingleSectorMembership(t *testing.T) {
	z := zone.New(1000, 1000, 50)
	z.Enter(1, 5, 5)
	z.UpdatePosition(1, 5, 5, 200, 200)

	assert.NotContains(t, z.GetPlayersInAOI(5, 5), uint32(1))
	assert.Contains(t, z.GetPlayersInAOI(200, 200), uint32(1))
}
