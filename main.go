package main

import (
	"phone-pictionary-be/internal/api/http"
	"phone-pictionary-be/internal/config"
	"phone-pictionary-be/internal/logger"
	"phone-pictionary-be/internal/service"
	"phone-pictionary-be/internal/service/game"
	"phone-pictionary-be/internal/service/words"
	"phone-pictionary-be/internal/state"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)
	defer zap.L().Sync()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		service.NewRoomService(
			newWordPicker(cfg.WordSource),
			game.WithMaxHintLength(cfg.Game.MaxHintLength),
		),
	)

	// 启动服务器
	if err := http.RunServer(appState); err != nil {
		zap.L().Fatal("服务器异常退出", zap.Error(err))
	}
}

// 没有配置生成接口时只使用内置词表
func newWordPicker(wc config.WordSourceConfig) *words.Picker {
	if wc.Endpoint == "" {
		zap.L().Info("未配置出词接口，使用内置词表")
		return words.NewPicker(nil, wc.Timeout)
	}

	return words.NewPicker(
		words.NewChatClient(wc.Endpoint, wc.APIKey, wc.Model, wc.RatePerSecond, wc.Burst),
		wc.Timeout,
	)
}
