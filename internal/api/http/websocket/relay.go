package websocket

import (
	"strings"
	"time"

	"phone-pictionary-be/internal/service"
	"phone-pictionary-be/internal/service/game"
	"phone-pictionary-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const roomIDParam = "roomId"

// JoinRelay 处理语音中继（来电者）的连接。
// 房间号来自 ?roomId= 查询参数，缺省时取首条 setup 消息里的 customParameters.roomId。
func JoinRelay(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := strings.TrimSpace(ctx.URLParam(roomIDParam))

		conn, ch, ok := upgrade(ctx, appState, "speech")
		if !ok {
			return
		}

		tc := appState.Cfg.Transport

		if roomID == "" {
			msg, err := readFirst(conn, tc)
			if err != nil {
				ch.logger().Warn("读取setup消息失败", zap.Error(err))
				detach(ch, nil, nil)
				return
			}

			first, err := game.DecodeSpeechMessage(msg)
			if setup, isSetup := first.(game.SetupMessage); err == nil && isSetup {
				roomID = strings.TrimSpace(setup.CustomParameters[roomIDParam])

				ch.logger().Info(
					"收到setup消息",
					zap.String("call_sid", setup.CallSid),
					zap.String("session_id", setup.SessionID),
				)
			}
		}

		if !service.IsValidRoomCode(roomID) {
			ch.logger().Warn("语音中继未提供有效房间号", zap.String("room_id", roomID))
			ch.Send(game.NewSpeechText("Sorry, that room code is not valid. Goodbye."))
			detach(ch, nil, nil)
			return
		}

		room := appState.RoomSvc.GetOrCreate(roomID)

		if err := room.PostWait(game.SpeechAttached{Ch: ch}, detachTimeout); err != nil {
			ch.logger().Error("来电者加入房间失败", zap.String("room_id", roomID), zap.Error(err))
			detach(ch, nil, nil)
			return
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if isUnexpectedClose(err) {
					ch.logger().Warn("读取消息失败", zap.Error(err))
				}
				break
			}

			conn.SetReadDeadline(time.Now().Add(tc.HeartbeatTimeout))

			decoded, err := game.DecodeSpeechMessage(msg)
			if err != nil {
				logDecodeError(ch, err)
				continue
			}

			switch m := decoded.(type) {
			case game.PromptMessage:
				ch.logger().Debug("来电者发言", zap.String("room_id", roomID), zap.String("text", m.VoicePrompt))
				post(ch, room, game.SpeechPrompt{Ch: ch, Text: m.VoicePrompt})

			case game.SetupMessage:
				ch.logger().Debug("忽略重复的setup消息")

			default:
				ch.logger().Warn("未处理的消息类型", zap.Any("message", m))
			}
		}

		detach(ch, room, game.SpeechDetached{Ch: ch})
	}
}
