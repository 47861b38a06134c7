package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 页面和语音中继来自不同的来源，暂时允许所有来源
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	// 断开事件必须送达房间，最多等待这么久
	detachTimeout = 3 * time.Second
	// 写协程在连接关闭后最多等待这么久
	writerExitTimeout = 3 * time.Second
	// 单条入站消息的最大字节数
	maxMessageSize = 16 * 1024
)

var heartbeatHandler = func(conn *websocket.Conn, timeout time.Duration) func(string) error {
	return func(string) error {
		conn.SetReadDeadline(time.Now().Add(timeout))
		return nil
	}
}
