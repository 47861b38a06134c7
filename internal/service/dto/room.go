package dto

import (
	"time"

	"phone-pictionary-be/internal/service/game"
)

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type RoomStatusResponse struct {
	RoomID      string `json:"room_id"`
	Mode        string `json:"mode"`
	PickingWord bool   `json:"picking_word"`
	// 各个位置是否有人
	Caller  bool `json:"caller"`
	Drawer  bool `json:"drawer"`
	Guesser bool `json:"guesser"`
	Strokes int  `json:"strokes"`

	CreatedAt time.Time `json:"created_at"`
}

// FromSnapshot 不暴露主题，避免在房间外泄露线索
func FromSnapshot(s game.Snapshot) RoomStatusResponse {
	return RoomStatusResponse{
		RoomID:      s.RoomID,
		Mode:        string(s.Mode),
		PickingWord: s.PickingWord,
		Caller:      s.HasCaller,
		Drawer:      s.HasDrawer,
		Guesser:     s.HasGuesser,
		Strokes:     s.Strokes,
		CreatedAt:   s.CreatedAt,
	}
}
