// Package navmesh adapts a baked nav-mesh binary to the FindPath contract
// the AI package needs (spec §4.9, §6).
//
// The binary layout is lifted directly from
// original_source/GameServer/PathFinder/MapGenerator.cpp's
// NavMeshSetHeader/NavMeshTileHeader dump (magic 'MSET', version 1,
// numTiles, then numTiles x {tileRef, dataSize, data}) — spec §6 restates
// the same layout. Tile payloads are opaque here: this adapter does not
// implement Detour's A*/funnel algorithm (that's a C++ library binding
// outside this spec's scope); FindPath always returns the straight-line
// polyline, whether or not a mesh is loaded, so callers never freeze
// waiting on a path.
package navmesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

const (
	magic   = 0x4D534554 // 'M'<<24 | 'S'<<16 | 'E'<<8 | 'T'
	version = 1
)

// NavMeshParams mirrors the original source's dtNavMeshParams-derived
// header fields that survive the translation to Go (spec §6).
type NavMeshParams struct {
	TileWidth  float32
	TileHeight float32
	MaxTiles   int32
	MaxPolys   int32
}

// Tile is one opaque baked tile blob, keyed by TileRef.
type Tile struct {
	TileRef  uint32
	DataSize int32
	Data     []byte
}

// Mesh is the decoded in-memory form of a loaded nav-mesh file.
type Mesh struct {
	Params NavMeshParams
	Tiles  []Tile
}

// Adapter is the FindPath contract the AI package depends on. Safe for
// concurrent Load/FindPath calls; Load only ever runs from process
// bootstrap, FindPath only ever runs from the game executor (spec §4.9:
// "no global state is mutated from non-game-executor threads").
type Adapter struct {
	mesh atomic.Pointer[Mesh]
}

// NewAdapter returns an Adapter with no mesh loaded; FindPath will use the
// straight-line fallback until Load succeeds.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Load reads and decodes the nav-mesh binary at path. On any failure
// (missing file, bad magic/version) it returns an error and leaves the
// adapter in its unloaded state — callers should log and continue with
// straight-line pathing (spec §7: "nav-mesh load failure ... fall back to
// straight-line pathing").
func (a *Adapter) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading nav-mesh %s: %w", path, err)
	}

	mesh, err := decode(data)
	if err != nil {
		return fmt.Errorf("decoding nav-mesh %s: %w", path, err)
	}

	a.mesh.Store(mesh)
	return nil
}

// Loaded reports whether a mesh is currently loaded.
func (a *Adapter) Loaded() bool {
	return a.mesh.Load() != nil
}

func decode(data []byte) (*Mesh, error) {
	r := bytes.NewReader(data)

	var gotMagic, gotVersion, numTiles int32
	if err := binary.Read(r, binary.LittleEndian, &gotMagic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if uint32(gotMagic) != magic {
		return nil, fmt.Errorf("bad magic 0x%08X, want 0x%08X", uint32(gotMagic), magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &gotVersion); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if gotVersion != version {
		return nil, fmt.Errorf("unsupported version %d, want %d", gotVersion, version)
	}
	if err := binary.Read(r, binary.LittleEndian, &numTiles); err != nil {
		return nil, fmt.Errorf("reading numTiles: %w", err)
	}

	var params NavMeshParams
	if err := binary.Read(r, binary.LittleEndian, &params); err != nil {
		return nil, fmt.Errorf("reading params: %w", err)
	}

	tiles := make([]Tile, 0, numTiles)
	for i := int32(0); i < numTiles; i++ {
		var tileRef uint32
		var dataSize int32
		if err := binary.Read(r, binary.LittleEndian, &tileRef); err != nil {
			return nil, fmt.Errorf("reading tile %d ref: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &dataSize); err != nil {
			return nil, fmt.Errorf("reading tile %d dataSize: %w", i, err)
		}
		buf := make([]byte, dataSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading tile %d data: %w", i, err)
		}
		tiles = append(tiles, Tile{TileRef: tileRef, DataSize: dataSize, Data: buf})
	}

	return &Mesh{Params: params, Tiles: tiles}, nil
}

// Point is a 2-D waypoint; z is held at 0 by the simulation (spec §4.9).
type Point struct {
	X, Y int32
}

// FindPath returns a polyline from start to end. It always returns the
// direct [start, end] polyline, loaded mesh or not: the loaded tiles are
// not searched, since this adapter implements no tile-graph search.
func (a *Adapter) FindPath(start, end Point) []Point {
	return []Point{start, end}
}
