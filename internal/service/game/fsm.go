package game

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var (
	ErrRoomClosed = errors.New("room closed")
	ErrRoomBusy   = errors.New("room event queue full")
)

// WordPicker 总是返回一个词，失败时由实现自行回落
type WordPicker interface {
	Pick(ctx context.Context, theme string) (word string, usedFallback bool)
}

const eventBuffer = 256

// RoomMachine 是单个房间的状态机，所有事件在 Start 所在的协程里串行处理
type RoomMachine struct {
	ctx     *RoomContext
	handler StageHandler

	// 所有通道的事件以及取词结果都汇总到这里
	events chan Event
	// 结束通道，用于通知状态机退出事件循环
	doneCh chan struct{}

	picker     WordPicker
	pickCtx    context.Context
	cancelPick context.CancelFunc

	createdAt time.Time
}

type MachineOption func(*RoomMachine)

func WithMaxHintLength(n int) MachineOption {
	return func(rm *RoomMachine) {
		rm.ctx.MaxHintLength = n
	}
}

func NewRoomMachine(roomID string, picker WordPicker, doneCh chan struct{}, opts ...MachineOption) *RoomMachine {
	pickCtx, cancel := context.WithCancel(context.Background())

	rm := &RoomMachine{
		ctx:        NewRoomContext(roomID),
		handler:    NewMenuStageHandler(),
		events:     make(chan Event, eventBuffer),
		doneCh:     doneCh,
		picker:     picker,
		pickCtx:    pickCtx,
		cancelPick: cancel,
		createdAt:  time.Now(),
	}

	rm.ctx.requestWord = rm.pickWord

	for _, opt := range opts {
		opt(rm)
	}

	rm.handler.SetOnSwitch(rm.onSwitch)

	return rm
}

func (rm *RoomMachine) onSwitch(next Mode) {
	rm.ctx.Mode = next
}

func (rm *RoomMachine) RoomID() string {
	return rm.ctx.RoomID
}

func (rm *RoomMachine) CreatedAt() time.Time {
	return rm.createdAt
}

// Post 非阻塞投递，队列满或房间已关闭时返回错误
func (rm *RoomMachine) Post(ev Event) error {
	select {
	case <-rm.doneCh:
		return ErrRoomClosed
	default:
	}

	select {
	case rm.events <- ev:
		return nil
	default:
		return ErrRoomBusy
	}
}

// PostWait 用于不能丢失的事件（通道断开），最多等待 timeout
func (rm *RoomMachine) PostWait(ev Event, timeout time.Duration) error {
	select {
	case <-rm.doneCh:
		return ErrRoomClosed
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case rm.events <- ev:
		return nil
	case <-rm.doneCh:
		return ErrRoomClosed
	case <-timer.C:
		return ErrRoomBusy
	}
}

// Snapshot 通过事件循环读取房间状态
func (rm *RoomMachine) Snapshot(timeout time.Duration) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	if err := rm.PostWait(snapshotQuery{Reply: reply}, timeout); err != nil {
		return Snapshot{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s := <-reply:
		return s, nil
	case <-rm.doneCh:
		return Snapshot{}, ErrRoomClosed
	case <-timer.C:
		return Snapshot{}, ErrRoomBusy
	}
}

func (rm *RoomMachine) pickWord(reqID uint64, theme string) {
	go func() {
		word, fallback := rm.picker.Pick(rm.pickCtx, theme)

		ev := wordPicked{
			ReqID:    reqID,
			Theme:    theme,
			Word:     word,
			Fallback: fallback,
		}

		select {
		case rm.events <- ev:
		case <-rm.doneCh:
		}
	}()
}

func (rm *RoomMachine) Start() {
	defer rm.cancelPick()

	rm.handler.OnEnter(rm.ctx)

	for {
		select {
		case ev := <-rm.events:
			rm.dispatch(ev)

		case <-rm.doneCh:
			zap.L().Info(
				"收到退出信号，结束房间状态机",
				zap.String("room_id", rm.ctx.RoomID),
			)
			return
		}
	}
}

func (rm *RoomMachine) dispatch(ev Event) {
	if q, ok := ev.(snapshotQuery); ok {
		snap := rm.ctx.Snapshot()
		snap.CreatedAt = rm.createdAt
		q.Reply <- snap
		return
	}

	err := rm.handler.OnHandle(rm.ctx, ev)
	if err != nil {
		zap.L().Debug(
			"忽略事件",
			zap.String("room_id", rm.ctx.RoomID),
			zap.String("mode", string(rm.handler.Stage())),
			zap.Error(err),
		)
	}

	if rm.ctx.Mode != rm.handler.Stage() && rm.switchStage() {
		rm.handler.OnEnter(rm.ctx)
	}
}

func (rm *RoomMachine) switchStage() bool {
	rm.handler.OnExit(rm.ctx)

	var next StageHandler

	switch rm.ctx.Mode {
	case MODE_MENU:
		next = NewMenuStageHandler()
	case MODE_ACTIVE_ROUND:
		next = NewRoundStageHandler()
	default:
		zap.L().Error(
			"未知的房间模式",
			zap.String("room_id", rm.ctx.RoomID),
			zap.String("mode", string(rm.ctx.Mode)),
		)
		rm.ctx.Mode = rm.handler.Stage()
		return false
	}

	zap.L().Info(
		"房间模式切换",
		zap.String("room_id", rm.ctx.RoomID),
		zap.String("from", string(rm.handler.Stage())),
		zap.String("to", string(rm.ctx.Mode)),
	)

	next.SetOnSwitch(rm.onSwitch)
	rm.handler = next

	return true
}
