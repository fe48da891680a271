// Package worldsvc implements the World process (spec §1, §4.9): for each
// world id, it picks a Gateway endpoint and mints a session token tied to
// an (account_id, world_id) pair. Named apart from internal/zone (the
// spatial index) and the teacher's own internal/world package to avoid
// a naming collision with either.
package worldsvc

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GatewayEndpoint is one world's client-facing Gateway address.
type GatewayEndpoint struct {
	IP   string
	Port int32
}

// Registry is the static world_id -> GatewayEndpoint table (config-driven;
// la2go's config.GameServerEntry is the direct analogue — spec.md has no
// teacher-grounded dynamic world discovery in scope, so this stays a flat
// map built from config at boot).
type Registry struct {
	endpoints map[int32]GatewayEndpoint
}

func NewRegistry(endpoints map[int32]GatewayEndpoint) *Registry {
	return &Registry{endpoints: endpoints}
}

// SelectWorld mints a session token for (accountID, worldID) if worldID is
// known, implementing the S2S contract behind LOGIN_WORLD_SELECT_REQ /
// WORLD_LOGIN_SELECT_RES (spec §4.9, §6).
func (r *Registry) SelectWorld(accountID string, worldID int32) (endpoint GatewayEndpoint, token string, ok bool) {
	endpoint, ok = r.endpoints[worldID]
	if !ok {
		return GatewayEndpoint{}, "", false
	}
	token, err := mintToken()
	if err != nil {
		return GatewayEndpoint{}, "", false
	}
	return endpoint, token, true
}

// mintToken returns an opaque random session token. crypto/rand is the
// correct tool here directly from the standard library: no example repo
// in the pack wraps token/UUID generation in a third-party library for
// this purpose (google/uuid appears only as testcontainers' own
// transitive dependency, never imported by application code in any
// example) — see DESIGN.md.
func mintToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("minting session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
