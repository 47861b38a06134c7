package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 回归用例：只比较目标短语的第一个单词
func TestIsCorrectGuess_RubberDuck(t *testing.T) {
	assert.False(t, IsCorrectGuess("rubber duck", "oh a duck"))
	assert.False(t, IsCorrectGuess("rubber duck", "oh a duck!"))
	assert.True(t, IsCorrectGuess("rubber duck", "it's a rubber band"))
}

// 连字符词整体作为第一个单词，不能退化成单个字母
func TestIsCorrectGuess_HyphenatedTarget(t *testing.T) {
	assert.False(t, IsCorrectGuess("t-shirt", "is it a cat"))
	assert.False(t, IsCorrectGuess("x-ray", "next please"))
	assert.True(t, IsCorrectGuess("t-shirt", "a t-shirt"))
	assert.True(t, IsCorrectGuess("t-shirt", "maybe a t shirt"))
	assert.True(t, IsCorrectGuess("x-ray machine", "an x  ray"))
}

func TestIsCorrectGuess(t *testing.T) {
	cases := []struct {
		target, utterance string
		want              bool
	}{
		{"pepperoni", "is it pepperoni", true},
		{"Pepperoni", "PEPPERONI!!!", true},
		{"ice-cream cone", "ice cream", true},
		{"pepperoni", "pepper", false},
		{"", "anything", false},
		{"   ", "anything", false},
		{"cat", "", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsCorrectGuess(tc.target, tc.utterance), "%q vs %q", tc.target, tc.utterance)
	}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit("quit"))
	assert.True(t, IsQuit("I want to QUIT."))
	assert.True(t, IsQuit("exit please"))
	assert.False(t, IsQuit("that was quite fun"))
	assert.False(t, IsQuit("an exciting theme"))
	assert.False(t, IsQuit(""))
}

// 只认独立的单词，"quitting"、"quite"、"exiting" 都不会挂断
func TestIsQuit_WholeWordsOnly(t *testing.T) {
	assert.False(t, IsQuit("I am quitting"))
	assert.False(t, IsQuit("quite a theme"))
	assert.False(t, IsQuit("exiting the building"))
	assert.True(t, IsQuit("ok, quit!"))
	assert.True(t, IsQuit("EXIT"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "it s a rubber band ", Normalize("It's a Rubber-band?"))
	assert.Equal(t, "café", Normalize("CAFÉ"))
}

func TestGenID(t *testing.T) {
	a, b := GenID(), GenID()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
