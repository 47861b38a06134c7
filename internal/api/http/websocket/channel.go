package websocket

import (
	"errors"
	"sync"
	"time"

	"phone-pictionary-be/internal/service/game"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrChannelClosed = errors.New("channel closed")
	ErrSendQueueFull = errors.New("send queue full")
)

// wsChannel 把一个 websocket 连接包装成 game.Channel。
// 所有写操作都在 writeLoop 协程里完成，保证单个连接上的发送顺序。
type wsChannel struct {
	id       string
	kind     string
	clientIP string
	conn     *websocket.Conn

	outCh     chan any
	closeCh   chan struct{}
	closeOnce sync.Once
	writerEnd chan struct{}

	heartbeatInterval time.Duration
	writeTimeout      time.Duration
}

func newWSChannel(
	conn *websocket.Conn,
	kind string,
	clientIP string,
	sendBuffer int,
	heartbeatInterval time.Duration,
	writeTimeout time.Duration,
) *wsChannel {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	return &wsChannel{
		id:                game.GenID(),
		kind:              kind,
		clientIP:          clientIP,
		conn:              conn,
		outCh:             make(chan any, sendBuffer),
		closeCh:           make(chan struct{}),
		writerEnd:         make(chan struct{}),
		heartbeatInterval: heartbeatInterval,
		writeTimeout:      writeTimeout,
	}
}

func (c *wsChannel) ID() string {
	return c.id
}

// Send 只入队，不阻塞房间协程
func (c *wsChannel) Send(msg any) error {
	select {
	case <-c.closeCh:
		return ErrChannelClosed
	default:
	}

	select {
	case c.outCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close 幂等；已入队的消息会先发送完再关闭连接
func (c *wsChannel) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
}

func (c *wsChannel) logger() *zap.Logger {
	return zap.L().With(
		zap.String("channel_id", c.id),
		zap.String("kind", c.kind),
		zap.String("client_ip", c.clientIP),
	)
}

func (c *wsChannel) writeLoop() {
	defer close(c.writerEnd)
	defer c.conn.Close()

	ticker := time.NewTicker(c.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closeCh:
			c.drain()

			c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.writeTimeout),
			)

			c.logger().Debug("写协程退出")
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger().Warn("发送心跳失败", zap.Error(err))
				c.Close()
				return
			}

		case msg := <-c.outCh:
			if err := c.write(msg); err != nil {
				c.logger().Warn("发送消息失败", zap.Error(err))
				c.Close()
				return
			}
		}
	}
}

func (c *wsChannel) write(msg any) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

// drain 发送关闭前已经入队的消息，例如道别语
func (c *wsChannel) drain() {
	for {
		select {
		case msg := <-c.outCh:
			if err := c.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// waitWriter 等待写协程退出，连接随之关闭
func (c *wsChannel) waitWriter() {
	c.Close()

	select {
	case <-c.writerEnd:
	case <-time.After(writerExitTimeout):
		c.logger().Warn("等待写协程退出超时")
		c.conn.Close()
	}
}
