package game

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// RoomContext 只在房间自己的事件循环协程中读写，不需要加锁
type RoomContext struct {
	RoomID string
	Mode   Mode

	// 仅在 MODE_ACTIVE_ROUND 下非空
	TargetWord string
	Theme      string
	DrawingLog []Segment

	Speech  Channel
	Drawer  Channel
	Guesser Channel

	// 非零表示正在等待这个编号的取词结果
	PendingReqID uint64

	MaxHintLength int

	nextReqID   uint64
	requestWord func(reqID uint64, theme string)
}

func NewRoomContext(roomID string) *RoomContext {
	return &RoomContext{
		RoomID: roomID,
		Mode:   MODE_MENU,
	}
}

// ResetRound 清空本轮所有状态，不改变 Mode
func (rc *RoomContext) ResetRound() {
	rc.TargetWord = ""
	rc.Theme = ""
	rc.DrawingLog = nil
	rc.PendingReqID = 0
}

// RequestWord 发起异步取词，返回请求编号
func (rc *RoomContext) RequestWord(theme string) uint64 {
	rc.nextReqID++
	rc.PendingReqID = rc.nextReqID

	if rc.requestWord != nil {
		rc.requestWord(rc.PendingReqID, theme)
	}

	return rc.PendingReqID
}

func (rc *RoomContext) Snapshot() Snapshot {
	return Snapshot{
		RoomID:      rc.RoomID,
		Mode:        rc.Mode,
		Theme:       rc.Theme,
		PickingWord: rc.PendingReqID != 0,
		HasCaller:   rc.Speech != nil,
		HasDrawer:   rc.Drawer != nil,
		HasGuesser:  rc.Guesser != nil,
		Strokes:     len(rc.DrawingLog),
	}
}

func (rc *RoomContext) send(ch Channel, msg any) {
	if ch == nil {
		return
	}

	if err := ch.Send(msg); err != nil {
		zap.L().Warn(
			"发送消息失败",
			zap.String("room_id", rc.RoomID),
			zap.String("channel_id", ch.ID()),
			zap.Error(err),
		)
		return
	}

	zap.L().Debug(
		"发送消息",
		zap.String("room_id", rc.RoomID),
		zap.String("channel_id", ch.ID()),
		zap.Any("message", msg),
	)
}

// TellSpeech 把一整句话交给语音中继朗读；没有来电者时什么都不做
func (rc *RoomContext) TellSpeech(text string) {
	rc.send(rc.Speech, NewSpeechText(text))
}

func (rc *RoomContext) TellBrowsers(msg any) {
	rc.send(rc.Drawer, msg)
	rc.send(rc.Guesser, msg)
}

// AnnounceRound 按角色发送开局消息，只有画手能看到词语
func (rc *RoomContext) AnnounceRound() {
	rc.send(rc.Drawer, NewPictionaryStart(rc.TargetWord))
	rc.send(rc.Guesser, NewPictionaryStart(""))
}

func (rc *RoomContext) RoleOf(ch Channel) (Role, bool) {
	switch {
	case ch == nil:
		return "", false
	case ch == rc.Drawer:
		return ROLE_DRAWER, true
	case ch == rc.Guesser:
		return ROLE_GUESSER, true
	}

	return "", false
}

func (rc *RoomContext) isSpeech(ch Channel) bool {
	return ch != nil && ch == rc.Speech
}

func (rc *RoomContext) isDrawer(ch Channel) bool {
	return ch != nil && ch == rc.Drawer
}

// RelayStroke 只接受当前画手在进行中的回合里的笔画
func (rc *RoomContext) RelayStroke(from Channel, seg Segment) bool {
	if !rc.isDrawer(from) || rc.Mode != MODE_ACTIVE_ROUND {
		return false
	}

	rc.DrawingLog = append(rc.DrawingLog, seg)
	rc.send(rc.Guesser, NewDrawSegment(seg))

	return true
}

// RelayHint 把画手的提示同时发给来电者和两个浏览器
func (rc *RoomContext) RelayHint(from Channel, text string) bool {
	if !rc.isDrawer(from) {
		return false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	if rc.MaxHintLength > 0 && utf8.RuneCountInString(text) > rc.MaxHintLength {
		text = string([]rune(text)[:rc.MaxHintLength])
	}

	rc.TellSpeech(text)
	rc.TellBrowsers(NewDrawerChat(text))

	return true
}

func (rc *RoomContext) ClearDrawing(from Channel) bool {
	if !rc.isDrawer(from) {
		return false
	}

	rc.DrawingLog = nil
	rc.TellBrowsers(NewClearCanvas())

	return true
}

// ReplayOnJoin 先补发已有笔画，再发送与当前模式对应的状态
func (rc *RoomContext) ReplayOnJoin(ch Channel, role Role) {
	if len(rc.DrawingLog) > 0 {
		segments := make([]Segment, len(rc.DrawingLog))
		copy(segments, rc.DrawingLog)

		rc.send(ch, NewInitDrawing(segments))
	}

	if rc.Mode != MODE_ACTIVE_ROUND {
		rc.send(ch, NewMenu())
		return
	}

	if role == ROLE_DRAWER {
		rc.send(ch, NewPictionaryStart(rc.TargetWord))
	} else {
		rc.send(ch, NewPictionaryStart(""))
	}
}

// claimSlot 让 ch 占据 role 对应的位置，返回被顶替的旧通道
func (rc *RoomContext) claimSlot(ch Channel, role Role) Channel {
	// 同一连接换角色时先腾出原来的位置
	if ch == rc.Drawer && role != ROLE_DRAWER {
		rc.Drawer = nil
	}
	if ch == rc.Guesser && role != ROLE_GUESSER {
		rc.Guesser = nil
	}

	slot := &rc.Drawer
	if role == ROLE_GUESSER {
		slot = &rc.Guesser
	}

	prev := *slot
	*slot = ch

	if prev == ch {
		return nil
	}

	return prev
}

// displace 通知被顶替的通道后将其关闭
func (rc *RoomContext) displace(prev Channel, slot string, notice any) {
	if prev == nil {
		return
	}

	zap.L().Info(
		"通道被顶替",
		zap.String("room_id", rc.RoomID),
		zap.String("channel_id", prev.ID()),
		zap.String("slot", slot),
	)

	rc.send(prev, notice)
	prev.Close()
}
