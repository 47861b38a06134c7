package game

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// 房间只有两个模式：
// 1. 菜单（menu）：等待来电者说出主题，取词期间仍处于菜单模式
// 2. 回合（active-round）：画手作画，来电者猜词，猜中或来电者挂断后回到菜单
type StageHandler interface {
	Stage() Mode

	OnEnter(ctx *RoomContext)
	OnHandle(ctx *RoomContext, ev Event) error
	OnExit(ctx *RoomContext)

	SetOnSwitch(func(next Mode))
}

var (
	errNotInSlot       = errors.New("channel does not hold a slot in this room")
	errIgnored         = errors.New("event not applicable in current mode")
	errStaleWord       = errors.New("stale word result")
	ErrUnexpectedEvent = errors.New("unexpected event")
)

// 念给来电者的话
const (
	speechMenuPrompt = "Say a theme to start a round, or say quit to hang up."
	speechGreeting   = "You're connected to room %s. "
	speechInRound    = "A round is in progress, say your guess whenever you're ready."
	speechRoundStart = "Got it. Your partner is drawing now. Say your guess whenever you're ready."
	speechPicking    = "Still picking a word, one moment."
	speechCorrect    = "Correct! The word was %s. "
	speechTryAgain   = "Not quite, try again."
	speechFarewell   = "Thanks for playing. Goodbye!"
	speechReplaced   = "Another call joined this room. Goodbye!"
)

// 浏览器状态栏文字
const (
	statusPicking      = "The caller chose %q. Picking a word..."
	statusCallerIn     = "Caller connected."
	statusCallerOut    = "Caller disconnected."
	statusJoined       = "Joined room %s as %s."
	statusPartnerIn    = "The %s joined."
	statusPartnerOut   = "The %s left."
	statusSlotReplaced = "Another %s joined room %s, this window was replaced."
)

// 菜单阶段处理器
type menuStageHandler struct {
	onSwitch func(Mode)
}

func NewMenuStageHandler() *menuStageHandler {
	return &menuStageHandler{}
}

func (msh *menuStageHandler) Stage() Mode {
	return MODE_MENU
}

func (msh *menuStageHandler) OnEnter(ctx *RoomContext) {
	ctx.ResetRound()
}

func (msh *menuStageHandler) OnHandle(ctx *RoomContext, ev Event) error {
	switch e := ev.(type) {
	case SpeechPrompt:
		if !ctx.isSpeech(e.Ch) {
			return errNotInSlot
		}

		if IsQuit(e.Text) {
			endSession(ctx, msh.onSwitch)
			return nil
		}

		if ctx.PendingReqID != 0 {
			ctx.TellSpeech(speechPicking)
			return nil
		}

		ctx.Theme = strings.TrimSpace(e.Text)
		ctx.DrawingLog = nil

		reqID := ctx.RequestWord(ctx.Theme)

		zap.L().Info(
			"来电者选择主题，开始取词",
			zap.String("room_id", ctx.RoomID),
			zap.String("theme", ctx.Theme),
			zap.Uint64("req_id", reqID),
		)

		ctx.TellBrowsers(NewStatus(fmt.Sprintf(statusPicking, ctx.Theme)))

		return nil

	case wordPicked:
		if e.ReqID == 0 || e.ReqID != ctx.PendingReqID {
			zap.L().Info(
				"丢弃过期的取词结果",
				zap.String("room_id", ctx.RoomID),
				zap.Uint64("req_id", e.ReqID),
				zap.Uint64("pending_req_id", ctx.PendingReqID),
			)
			return errStaleWord
		}

		ctx.TargetWord = e.Word
		ctx.DrawingLog = nil
		ctx.PendingReqID = 0

		zap.L().Info(
			"取词完成，回合开始",
			zap.String("room_id", ctx.RoomID),
			zap.String("theme", e.Theme),
			zap.Bool("fallback", e.Fallback),
		)

		msh.onSwitch(MODE_ACTIVE_ROUND)

		return nil
	}

	return handleCommon(ctx, ev, msh.onSwitch)
}

func (msh *menuStageHandler) OnExit(ctx *RoomContext) {
}

func (msh *menuStageHandler) SetOnSwitch(onSwitch func(Mode)) {
	msh.onSwitch = onSwitch
}

// 回合阶段处理器
type roundStageHandler struct {
	onSwitch func(Mode)
}

func NewRoundStageHandler() *roundStageHandler {
	return &roundStageHandler{}
}

func (rsh *roundStageHandler) Stage() Mode {
	return MODE_ACTIVE_ROUND
}

func (rsh *roundStageHandler) OnEnter(ctx *RoomContext) {
	ctx.TellSpeech(speechRoundStart)
	ctx.AnnounceRound()
}

func (rsh *roundStageHandler) OnHandle(ctx *RoomContext, ev Event) error {
	switch e := ev.(type) {
	case SpeechPrompt:
		if !ctx.isSpeech(e.Ch) {
			return errNotInSlot
		}

		if IsQuit(e.Text) {
			endSession(ctx, rsh.onSwitch)
			return nil
		}

		if IsCorrectGuess(ctx.TargetWord, e.Text) {
			zap.L().Info(
				"来电者猜中",
				zap.String("room_id", ctx.RoomID),
				zap.String("guess", e.Text),
			)

			ctx.TellSpeech(fmt.Sprintf(speechCorrect, ctx.TargetWord) + speechMenuPrompt)
			ctx.TellBrowsers(NewRoundResult(OUTCOME_CORRECT, ctx.TargetWord))

			rsh.onSwitch(MODE_MENU)
			return nil
		}

		ctx.TellSpeech(speechTryAgain)
		ctx.TellBrowsers(NewGuess(e.Text, false))

		return nil

	case StrokeDrawn:
		if !ctx.RelayStroke(e.Ch, e.Segment) {
			return errIgnored
		}
		return nil
	}

	return handleCommon(ctx, ev, rsh.onSwitch)
}

func (rsh *roundStageHandler) OnExit(ctx *RoomContext) {
}

func (rsh *roundStageHandler) SetOnSwitch(onSwitch func(Mode)) {
	rsh.onSwitch = onSwitch
}

// handleCommon 处理与模式无关的事件
func handleCommon(ctx *RoomContext, ev Event, onSwitch func(Mode)) error {
	switch e := ev.(type) {
	case SpeechAttached:
		onSpeechAttach(ctx, e.Ch)
		return nil

	case SpeechDetached:
		if !ctx.isSpeech(e.Ch) {
			return errNotInSlot
		}

		ctx.Speech = nil
		resetToMenu(ctx, onSwitch)

		zap.L().Info("来电者断开", zap.String("room_id", ctx.RoomID))

		ctx.TellBrowsers(NewStatus(statusCallerOut))
		ctx.TellBrowsers(NewMenu())

		return nil

	case WebJoined:
		onWebJoin(ctx, e.Ch, e.Role)
		return nil

	case WebDetached:
		role, ok := ctx.RoleOf(e.Ch)
		if !ok {
			return errNotInSlot
		}

		if role == ROLE_DRAWER {
			ctx.Drawer = nil
		} else {
			ctx.Guesser = nil
		}

		zap.L().Info(
			"浏览器断开",
			zap.String("room_id", ctx.RoomID),
			zap.String("role", role.Label()),
		)

		ctx.TellBrowsers(NewStatus(fmt.Sprintf(statusPartnerOut, role.Label())))

		return nil

	case StrokeDrawn:
		return errIgnored

	case HintSent:
		if !ctx.RelayHint(e.Ch, e.Text) {
			return errIgnored
		}
		return nil

	case CanvasCleared:
		if !ctx.ClearDrawing(e.Ch) {
			return errIgnored
		}
		return nil

	case wordPicked:
		return errStaleWord
	}

	return fmt.Errorf("%w: %T", ErrUnexpectedEvent, ev)
}

// 回到菜单；在菜单模式下直接清空状态（取消等待中的取词）
func resetToMenu(ctx *RoomContext, onSwitch func(Mode)) {
	if ctx.Mode == MODE_ACTIVE_ROUND {
		onSwitch(MODE_MENU)
		return
	}

	ctx.ResetRound()
}

// 来电者说 quit/exit：道别、关闭语音通道。
// 槽位等通道自己的断开事件再清理。
func endSession(ctx *RoomContext, onSwitch func(Mode)) {
	zap.L().Info("来电者结束会话", zap.String("room_id", ctx.RoomID))

	ctx.TellSpeech(speechFarewell)
	ctx.Speech.Close()

	resetToMenu(ctx, onSwitch)
}

func onSpeechAttach(ctx *RoomContext, ch Channel) {
	prev := ctx.Speech
	if prev == ch {
		return
	}

	ctx.Speech = ch
	ctx.displace(prev, "caller", NewSpeechText(speechReplaced))

	zap.L().Info(
		"来电者接入",
		zap.String("room_id", ctx.RoomID),
		zap.String("channel_id", ch.ID()),
	)

	greeting := fmt.Sprintf(speechGreeting, ctx.RoomID)
	if ctx.Mode == MODE_ACTIVE_ROUND {
		ctx.TellSpeech(greeting + speechInRound)
	} else {
		ctx.TellSpeech(greeting + speechMenuPrompt)
	}

	ctx.TellBrowsers(NewStatus(statusCallerIn))
}

func onWebJoin(ctx *RoomContext, ch Channel, role Role) {
	prev := ctx.claimSlot(ch, role)
	ctx.displace(prev, role.Label(), NewStatus(fmt.Sprintf(statusSlotReplaced, role.Label(), ctx.RoomID)))

	zap.L().Info(
		"浏览器加入",
		zap.String("room_id", ctx.RoomID),
		zap.String("channel_id", ch.ID()),
		zap.String("role", role.Label()),
	)

	ctx.send(ch, NewStatus(fmt.Sprintf(statusJoined, ctx.RoomID, role.Label())))
	ctx.ReplayOnJoin(ch, role)

	partner := ctx.Guesser
	if role == ROLE_GUESSER {
		partner = ctx.Drawer
	}
	ctx.send(partner, NewStatus(fmt.Sprintf(statusPartnerIn, role.Label())))
}
