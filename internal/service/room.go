package service

import (
	"errors"
	"sync"
	"time"

	"phone-pictionary-be/internal/service/dto"
	"phone-pictionary-be/internal/service/game"

	"go.uber.org/zap"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNoFreeRoomCode = errors.New("no free room code")
	ErrServiceClosed  = errors.New("room service closed")
)

const snapshotTimeout = 2 * time.Second

// RoomService 是进程内的房间注册表。
// 房间在第一次被引用时创建，之后一直存在到进程退出。
type RoomService struct {
	state *roomServiceState

	picker   game.WordPicker
	machOpts []game.MachineOption
}

type roomServiceState struct {
	mu sync.RWMutex

	rooms map[string]*game.RoomMachine

	// 关闭后所有房间协程退出
	doneCh chan struct{}
	closed bool
}

func NewRoomService(picker game.WordPicker, opts ...game.MachineOption) *RoomService {
	return &RoomService{
		state: &roomServiceState{
			rooms:  make(map[string]*game.RoomMachine),
			doneCh: make(chan struct{}),
		},
		picker:   picker,
		machOpts: opts,
	}
}

// GetOrCreate 对同一个 roomID 总是返回同一个房间
func (rs *RoomService) GetOrCreate(roomID string) *game.RoomMachine {
	if room, ok := rs.Lookup(roomID); ok {
		return room
	}

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if room, ok := rs.state.rooms[roomID]; ok {
		return room
	}

	room := game.NewRoomMachine(roomID, rs.picker, rs.state.doneCh, rs.machOpts...)
	rs.state.rooms[roomID] = room

	// 服务关闭后创建的房间不再启动协程，投递会直接返回 ErrRoomClosed
	if !rs.state.closed {
		go room.Start()
	}

	zap.L().Info(
		"创建房间",
		zap.String("room_id", roomID),
		zap.Int("room_count", len(rs.state.rooms)),
	)

	return room
}

// Lookup 不会创建房间
func (rs *RoomService) Lookup(roomID string) (*game.RoomMachine, bool) {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	room, ok := rs.state.rooms[roomID]
	return room, ok
}

func (rs *RoomService) RoomCount() int {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	return len(rs.state.rooms)
}

// CreateRoom 分配一个当前未被使用的房间号并创建房间
func (rs *RoomService) CreateRoom() (dto.CreateRoomResponse, error) {
	rs.state.mu.RLock()
	closed := rs.state.closed
	rs.state.mu.RUnlock()

	if closed {
		return dto.CreateRoomResponse{}, ErrServiceClosed
	}

	for _, digits := range []int{4, 5, 6} {
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code := genRoomCode(digits)

			if _, taken := rs.Lookup(code); taken {
				continue
			}

			rs.GetOrCreate(code)

			return dto.CreateRoomResponse{RoomID: code}, nil
		}
	}

	zap.L().Error("无法分配房间号", zap.Int("room_count", rs.RoomCount()))

	return dto.CreateRoomResponse{}, ErrNoFreeRoomCode
}

func (rs *RoomService) RoomStatus(roomID string) (dto.RoomStatusResponse, error) {
	room, ok := rs.Lookup(roomID)
	if !ok {
		return dto.RoomStatusResponse{}, ErrRoomNotFound
	}

	snap, err := room.Snapshot(snapshotTimeout)
	if err != nil {
		zap.L().Warn(
			"读取房间状态失败",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return dto.RoomStatusResponse{}, err
	}

	return dto.FromSnapshot(snap), nil
}

func (rs *RoomService) Close() {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if rs.state.closed {
		return
	}

	rs.state.closed = true
	close(rs.state.doneCh)

	zap.L().Info("房间服务关闭", zap.Int("room_count", len(rs.state.rooms)))
}
