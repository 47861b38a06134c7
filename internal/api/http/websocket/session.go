package websocket

import (
	"errors"
	"time"

	"phone-pictionary-be/internal/config"
	"phone-pictionary-be/internal/service/game"
	"phone-pictionary-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// upgrade 完成握手并启动写协程
func upgrade(ctx iris.Context, appState *state.AppState, kind string) (*websocket.Conn, *wsChannel, bool) {
	conn, err := upgrader.Upgrade(
		ctx.ResponseWriter(),
		ctx.Request(),
		nil,
	)
	if err != nil {
		zap.L().Error(
			"升级到WebSocket失败",
			zap.String("kind", kind),
			zap.String("client_ip", ctx.RemoteAddr()),
			zap.Error(err),
		)
		ctx.StatusCode(iris.StatusBadRequest)
		return nil, nil, false
	}

	tc := appState.Cfg.Transport

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(tc.HeartbeatTimeout))
	conn.SetPongHandler(heartbeatHandler(conn, tc.HeartbeatTimeout))

	ch := newWSChannel(
		conn,
		kind,
		ctx.RemoteAddr(),
		tc.SendBuffer,
		tc.HeartbeatInterval,
		tc.HeartbeatTimeout,
	)

	go ch.writeLoop()

	ch.logger().Info("WebSocket连接建立")

	return conn, ch, true
}

// readFirst 在 setup_timeout 内读取首条消息，之后恢复心跳超时
func readFirst(conn *websocket.Conn, tc config.TransportConfig) ([]byte, error) {
	conn.SetReadDeadline(time.Now().Add(tc.SetupTimeout))

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(tc.HeartbeatTimeout))

	return msg, nil
}

// post 投递普通事件，房间繁忙时丢弃
func post(ch *wsChannel, room *game.RoomMachine, ev game.Event) {
	if err := room.Post(ev); err != nil {
		ch.logger().Warn(
			"投递事件失败",
			zap.String("room_id", room.RoomID()),
			zap.Error(err),
		)
	}
}

// detach 通知房间连接已断开，然后等待写协程退出
func detach(ch *wsChannel, room *game.RoomMachine, ev game.Event) {
	if room != nil {
		if err := room.PostWait(ev, detachTimeout); err != nil {
			ch.logger().Warn(
				"投递断开事件失败",
				zap.String("room_id", room.RoomID()),
				zap.Error(err),
			)
		}
	}

	ch.waitWriter()

	ch.logger().Info("WebSocket连接处理完成")
}

func isUnexpectedClose(err error) bool {
	return websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseGoingAway,
		websocket.CloseNormalClosure,
		websocket.CloseAbnormalClosure,
	)
}

func logDecodeError(ch *wsChannel, err error) {
	if errors.Is(err, game.ErrUnknownMessageType) {
		ch.logger().Debug("忽略未知消息", zap.Error(err))
		return
	}

	ch.logger().Warn("解析消息失败", zap.Error(err))
}
