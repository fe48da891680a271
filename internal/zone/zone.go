// Package zone implements the Area-of-Interest spatial index (spec §4.5).
//
// Zone mutation is only ever safe from the game executor (spec §3
// invariant 6, §5) — Zone itself carries no mutex, unlike la2go's
// sync.Map-backed internal/world.Region or the original C++ source's
// shared_mutex-guarded Sector (original_source/GameServer/Zone/Zone.h).
// Both of those exist to let multiple threads touch the grid concurrently,
// which the game executor's single-writer discipline makes unnecessary —
// see SPEC_FULL.md §4.3.
package zone

// Zone is a rectangular world of width x height partitioned into a grid of
// sectorSize x sectorSize sectors. Each sector holds a set of uids
// (players and monsters intermixed).
type Zone struct {
	width, height int32
	sectorSize    int32
	rows, cols    int32

	sectors []map[uint32]struct{}
}

// New creates a Zone over [0,width) x [0,height), partitioned into
// sectorSize squares. rows = ceil(height/sectorSize), cols =
// ceil(width/sectorSize) (spec §3).
func New(width, height, sectorSize int32) *Zone {
	rows := ceilDiv(height, sectorSize)
	cols := ceilDiv(width, sectorSize)

	sectors := make([]map[uint32]struct{}, rows*cols)
	for i := range sectors {
		sectors[i] = make(map[uint32]struct{})
	}

	return &Zone{
		width:      width,
		height:     height,
		sectorSize: sectorSize,
		rows:       rows,
		cols:       cols,
		sectors:    sectors,
	}
}

func ceilDiv(a, b int32) int32 {
	return (a + b - 1) / b
}

// SectorOf returns the sector containing (x, y), or ok=false if (x, y)
// lies outside the world rectangle (spec §4.5: half-open world,
// [0,width) x [0,height)).
func (z *Zone) SectorOf(x, y int32) (row, col int32, ok bool) {
	if x < 0 || x >= z.width || y < 0 || y >= z.height {
		return 0, 0, false
	}
	return y / z.sectorSize, x / z.sectorSize, true
}

func (z *Zone) index(row, col int32) int {
	return int(row*z.cols + col)
}

// Enter adds uid to the sector containing (x, y). No-op if (x, y) is out
// of bounds.
func (z *Zone) Enter(uid uint32, x, y int32) {
	row, col, ok := z.SectorOf(x, y)
	if !ok {
		return
	}
	z.sectors[z.index(row, col)][uid] = struct{}{}
}

// Leave removes uid from the sector containing (x, y). Tolerant of uid not
// being present, and of (x, y) being out of bounds.
func (z *Zone) Leave(uid uint32, x, y int32) {
	row, col, ok := z.SectorOf(x, y)
	if !ok {
		return
	}
	delete(z.sectors[z.index(row, col)], uid)
}

// UpdatePosition moves uid from (ox, oy) to (nx, ny). If both positions
// resolve to the same sector, this is a no-op — intra-sector moves skip
// the grid entirely (spec §4.5). If (nx, ny) is out of bounds, the whole
// call is a no-op: uid stays indexed at its last valid sector rather than
// being dropped from the grid entirely (spec §7: "out-of-bounds
// coordinates ... Zone ops no-op; entity stays in last valid sector").
func (z *Zone) UpdatePosition(uid uint32, ox, oy, nx, ny int32) {
	newRow, newCol, newOK := z.SectorOf(nx, ny)
	if !newOK {
		return
	}

	oldRow, oldCol, oldOK := z.SectorOf(ox, oy)
	if oldOK && oldRow == newRow && oldCol == newCol {
		return
	}
	if oldOK {
		delete(z.sectors[z.index(oldRow, oldCol)], uid)
	}
	z.sectors[z.index(newRow, newCol)][uid] = struct{}{}
}

// GetPlayersInAOI returns the uids in the 3x3 sector neighbourhood centred
// on SectorOf(x, y), clipped at the world edge. Order is unspecified. The
// name is inherited from spec §4.5 even though the set may include
// monster uids too — callers partition by constants.MonsterUIDBase.
func (z *Zone) GetPlayersInAOI(x, y int32) []uint32 {
	row, col, ok := z.SectorOf(x, y)
	if !ok {
		return nil
	}

	var out []uint32
	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= z.rows {
			continue
		}
		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= z.cols {
				continue
			}
			for uid := range z.sectors[z.index(r, c)] {
				out = append(out, uid)
			}
		}
	}
	return out
}
