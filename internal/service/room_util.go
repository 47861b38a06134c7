package service

import (
	"math/rand"
	"regexp"
	"strconv"
)

const maxCodeAttempts = 32

var roomCodePattern = regexp.MustCompile(`^[0-9]{4,6}$`)

// IsValidRoomCode 房间号是 4 到 6 位数字
func IsValidRoomCode(code string) bool {
	return roomCodePattern.MatchString(code)
}

// genRoomCode 生成不以 0 开头的 digits 位数字
func genRoomCode(digits int) string {
	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}

	return strconv.Itoa(low + rand.Intn(low*9))
}
