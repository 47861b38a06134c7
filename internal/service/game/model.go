package game

import "time"

// 房间模式
type Mode string

const (
	MODE_MENU         Mode = "menu"
	MODE_ACTIVE_ROUND Mode = "active-round"
)

// 浏览器端角色；来电者自己的浏览器是猜词方
type Role string

const (
	ROLE_DRAWER  Role = "drawer"
	ROLE_GUESSER Role = "caller"
)

// ParseRole 只认 "caller"，其余一律视为画手
func ParseRole(s string) Role {
	if Role(s) == ROLE_GUESSER {
		return ROLE_GUESSER
	}

	return ROLE_DRAWER
}

func (r Role) Label() string {
	if r == ROLE_GUESSER {
		return "guesser"
	}

	return "drawer"
}

// 一段笔画
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`

	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Channel 是房间内某个参与者的有序消息通道
//
// Send 不应阻塞；通道已断开时返回错误即可，房间只记录日志。
// Close 必须幂等。
type Channel interface {
	ID() string
	Send(msg any) error
	Close()
}

// Snapshot 是房间状态的只读副本，供 HTTP 接口查询
type Snapshot struct {
	RoomID      string `json:"room_id"`
	Mode        Mode   `json:"mode"`
	Theme       string `json:"theme,omitempty"`
	PickingWord bool   `json:"picking_word"`
	HasCaller   bool   `json:"has_caller"`
	HasDrawer   bool   `json:"has_drawer"`
	HasGuesser  bool   `json:"has_guesser"`
	Strokes     int    `json:"strokes"`

	CreatedAt time.Time `json:"created_at"`
}
