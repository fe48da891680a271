// Package config loads per-process YAML configuration, matching la2go's
// internal/config convention of one tagged struct per process.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoginServer holds configuration for the Login process.
type LoginServer struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	WorldHost string `yaml:"world_host"`
	WorldPort int    `yaml:"world_port"`

	LogLevel string `yaml:"log_level"`
}

// WorldServer holds configuration for the World process.
type WorldServer struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// GameWorlds maps a world id to the Gateway endpoint clients should
	// reconnect to, la2go's GameServerEntry static-list idea narrowed to
	// this spec's single-Gateway-per-world shape.
	GameWorlds []GameWorldEntry `yaml:"game_worlds"`

	LogLevel string `yaml:"log_level"`
}

// GameWorldEntry is one entry of WorldServer.GameWorlds.
type GameWorldEntry struct {
	WorldID     int32  `yaml:"world_id"`
	GatewayIP   string `yaml:"gateway_ip"`
	GatewayPort int    `yaml:"gateway_port"`
}

// Gateway holds configuration for the Gateway process.
type Gateway struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	GameHost string `yaml:"game_host"`
	GamePort int    `yaml:"game_port"`

	LogLevel string `yaml:"log_level"`
}

// GameServer holds configuration for the Game process.
type GameServer struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	World ZoneConfig `yaml:"world"`

	NavMeshPath string `yaml:"nav_mesh_path"`

	// Spawns seeds the monster set at boot (spec §3: "created at Game
	// startup; never destroyed"). A flat YAML list plays the role la2go's
	// data.LoadSpawns XML pipeline plays for that teacher's much larger
	// NPC roster.
	Spawns []MonsterSpawn `yaml:"spawns"`

	LogLevel string `yaml:"log_level"`
}

// MonsterSpawn is one entry of GameServer.Spawns.
type MonsterSpawn struct {
	X              int32   `yaml:"x"`
	Y              int32   `yaml:"y"`
	MaxHP          int32   `yaml:"max_hp"`
	AttackPower    int32   `yaml:"attack_power"`
	AttackRange    float64 `yaml:"attack_range"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	Speed          float64 `yaml:"speed"`
}

// ZoneConfig sizes the AOI grid (spec §4.5).
type ZoneConfig struct {
	Width      int32 `yaml:"width"`
	Height     int32 `yaml:"height"`
	SectorSize int32 `yaml:"sector_size"`
}

func load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// LoadLoginServer loads a LoginServer config from path.
func LoadLoginServer(path string) (LoginServer, error) {
	var cfg LoginServer
	err := load(path, &cfg)
	return cfg, err
}

// LoadWorldServer loads a WorldServer config from path.
func LoadWorldServer(path string) (WorldServer, error) {
	var cfg WorldServer
	err := load(path, &cfg)
	return cfg, err
}

// LoadGateway loads a Gateway config from path.
func LoadGateway(path string) (Gateway, error) {
	var cfg Gateway
	err := load(path, &cfg)
	return cfg, err
}

// LoadGameServer loads a GameServer config from path.
func LoadGameServer(path string) (GameServer, error) {
	var cfg GameServer
	err := load(path, &cfg)
	return cfg, err
}
