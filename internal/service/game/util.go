package game

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// Normalize 转小写，并把所有非字母数字字符替换为空格
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return ' '
	}, s)
}

// collapse 规范化后合并连续空格，"t-shirt" 和 "t shirt" 得到同一个结果
func collapse(s string) string {
	return strings.Join(strings.Fields(Normalize(s)), " ")
}

// firstToken 按空白切分后取第一个词，词内的连字符等标点保留到规范化时再处理
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// IsCorrectGuess 只检查目标词的第一个单词是否出现在规范化后的发言中。
// "rubber duck" 对 "oh a duck" 不算猜中，对 "it's a rubber band" 算猜中。
func IsCorrectGuess(target, utterance string) bool {
	head := collapse(firstToken(target))
	if head == "" {
		return false
	}

	return strings.Contains(collapse(utterance), head)
}

// IsQuit 发言中含有独立的 quit 或 exit 单词
func IsQuit(utterance string) bool {
	for _, w := range strings.Fields(Normalize(utterance)) {
		if w == "quit" || w == "exit" {
			return true
		}
	}

	return false
}
