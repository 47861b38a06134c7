package http

import (
	"errors"

	"phone-pictionary-be/internal/service"
	"phone-pictionary-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// CreateRoom 分配一个当前没人使用的房间号
func CreateRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		resp, err := appState.RoomSvc.CreateRoom()
		if err != nil {
			zap.L().Error("创建房间失败", zap.Error(err))
			ctx.StatusCode(iris.StatusServiceUnavailable)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(resp)
	}
}

func GetRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("id")

		if !service.IsValidRoomCode(roomID) {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "房间号无效",
			})
			return
		}

		resp, err := appState.RoomSvc.RoomStatus(roomID)
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, service.ErrRoomNotFound) {
				status = iris.StatusNotFound
			}

			ctx.StatusCode(status)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(resp)
	}
}
