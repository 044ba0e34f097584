// Package save implements JSON serialization and deserialization of a session.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/lockedstudy/engine/effects"
	"github.com/nathoo/lockedstudy/engine/state"
	"github.com/nathoo/lockedstudy/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version   string                `json:"version"`
	Game      string                `json:"game"`
	Moves     int                   `json:"moves"`
	HintsUsed int                   `json:"hints_used"`
	Won       bool                  `json:"won"`
	RoomState types.RoomState       `json:"room_state"`
	Inventory []types.InventoryItem `json:"inventory"`
	HintSeed  int64                 `json:"hint_seed"`
	HintRolls int64                 `json:"hint_rolls"`
}

// Save serializes a session to JSON bytes.
func Save(s *types.Session, room types.RoomDef) ([]byte, error) {
	data := SaveData{
		Version:   room.Version,
		Game:      room.Title,
		Moves:     s.MoveCount,
		HintsUsed: s.HintsUsed,
		Won:       s.Won,
		RoomState: s.RoomState,
		Inventory: s.Inventory,
		HintSeed:  s.HintSeed,
		HintRolls: s.HintRolls,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData and checks them.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Inventory == nil {
		sd.Inventory = []types.InventoryItem{}
	}
	if err := effects.ValidateInventory(sd.Inventory); err != nil {
		return nil, fmt.Errorf("invalid save: %w", err)
	}
	if sd.Moves < 0 || sd.HintsUsed < 0 || sd.HintRolls < 0 {
		return nil, fmt.Errorf("invalid save: negative counter")
	}
	return &sd, nil
}

// ApplySave replaces the session's contents with the loaded data.
func ApplySave(s *types.Session, sd *SaveData) {
	s.RoomState = sd.RoomState
	s.Inventory = state.CloneInventory(sd.Inventory)
	s.MoveCount = sd.Moves
	s.HintsUsed = sd.HintsUsed
	s.Won = sd.Won
	s.HintSeed = sd.HintSeed
	s.HintRolls = sd.HintRolls
}
