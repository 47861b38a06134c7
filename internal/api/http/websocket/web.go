package websocket

import (
	"time"

	"phone-pictionary-be/internal/service"
	"phone-pictionary-be/internal/service/game"
	"phone-pictionary-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// JoinWeb 处理画手和猜词方的浏览器连接。
// 首条消息必须是 joinWeb，之后的消息转发给对应房间。
func JoinWeb(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, ch, ok := upgrade(ctx, appState, "web")
		if !ok {
			return
		}

		tc := appState.Cfg.Transport

		msg, err := readFirst(conn, tc)
		if err != nil {
			ch.logger().Warn("读取首次请求失败", zap.Error(err))
			detach(ch, nil, nil)
			return
		}

		first, err := game.DecodeWebMessage(msg)
		join, isJoin := first.(game.JoinWebMessage)
		if err != nil || !isJoin {
			ch.logger().Warn("首次请求不是joinWeb类型", zap.Error(err))
			ch.Send(game.NewStatus("Send joinWeb first."))
			detach(ch, nil, nil)
			return
		}

		if !service.IsValidRoomCode(join.RoomID) {
			ch.logger().Warn("房间号无效", zap.String("room_id", join.RoomID))
			ch.Send(game.NewStatus("Room codes are 4 to 6 digits."))
			detach(ch, nil, nil)
			return
		}

		room := appState.RoomSvc.GetOrCreate(join.RoomID)

		if err := room.PostWait(game.WebJoined{Ch: ch, Role: game.ParseRole(join.Role)}, detachTimeout); err != nil {
			ch.logger().Error("加入房间失败", zap.String("room_id", join.RoomID), zap.Error(err))
			detach(ch, nil, nil)
			return
		}

		limiter := rate.NewLimiter(rate.Limit(tc.InboundRate), tc.InboundBurst)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if isUnexpectedClose(err) {
					ch.logger().Warn("读取消息失败", zap.Error(err))
				}
				break
			}

			conn.SetReadDeadline(time.Now().Add(tc.HeartbeatTimeout))

			if !limiter.Allow() {
				ch.logger().Debug("消息过于频繁，丢弃")
				continue
			}

			decoded, err := game.DecodeWebMessage(msg)
			if err != nil {
				logDecodeError(ch, err)
				continue
			}

			switch m := decoded.(type) {
			case game.JoinWebMessage:
				// 同一连接只能留在首次加入的房间，可以换角色
				if m.RoomID != join.RoomID {
					ch.logger().Warn(
						"忽略切换房间请求",
						zap.String("room_id", join.RoomID),
						zap.String("requested_room_id", m.RoomID),
					)
					continue
				}
				post(ch, room, game.WebJoined{Ch: ch, Role: game.ParseRole(m.Role)})

			case game.DrawSegmentMessage:
				post(ch, room, game.StrokeDrawn{Ch: ch, Segment: m.Segment})

			case game.DrawerChatMessage:
				post(ch, room, game.HintSent{Ch: ch, Text: m.Text})

			case game.ClearCanvasMessage:
				post(ch, room, game.CanvasCleared{Ch: ch})

			default:
				ch.logger().Warn("未处理的消息类型", zap.Any("message", m))
			}
		}

		detach(ch, room, game.WebDetached{Ch: ch})
	}
}
