package http

import (
	"context"
	"fmt"
	"os"
	"time"

	"phone-pictionary-be/internal/api/http/websocket"
	"phone-pictionary-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// NewApp 注册全部路由，不监听端口
func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()
	app.Logger().SetLevel(appState.Cfg.LogLevel)

	if dir := appState.Cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			app.HandleDir(
				"/",
				iris.Dir(dir),
				iris.DirOptions{
					IndexName: "index.html",
					SPA:       true,
					Compress:  true,
				},
			)
		} else {
			zap.L().Warn("静态资源目录不存在，跳过", zap.String("static_dir", dir))
		}
	}

	api := app.Party("/api/v1")

	api.Post("/rooms/create", CreateRoom(appState))
	api.Get("/rooms/{id:string}", GetRoom(appState))

	api.Get("/ws/web", websocket.JoinWeb(appState))
	api.Get("/ws/relay", websocket.JoinRelay(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	iris.RegisterOnInterrupt(func() {
		zap.L().Info("收到退出信号，正在关闭服务器")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.Shutdown(ctx); err != nil {
			zap.L().Error("关闭服务器失败", zap.Error(err))
		}

		appState.RoomSvc.Close()
	})

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	zap.L().Info("服务器启动", zap.String("addr", addr))

	return app.Listen(
		addr,
		iris.WithoutInterruptHandler,
		iris.WithoutServerError(iris.ErrServerClosed),
	)
}
