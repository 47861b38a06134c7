package words

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyWord   = errors.New("word source returned an empty word")
	ErrUnavailable = errors.New("word source unavailable")
)

type Source interface {
	GenerateWord(ctx context.Context, theme string) (string, error)
}

// Fallback 是远程服务不可用或主题为空/random 时使用的内置词表
var Fallback = []string{
	"apple", "banana", "bicycle", "butterfly", "cactus", "camera", "castle",
	"cat", "cloud", "dragon", "elephant", "guitar", "hamburger", "house",
	"igloo", "kite", "lighthouse", "moon", "mountain", "octopus", "penguin",
	"pizza", "rainbow", "robot", "rocket", "snowman", "spider", "sun",
	"tree", "umbrella", "volcano", "whale",
}

var randomTheme = regexp.MustCompile(`(?i)random`)

type Picker struct {
	source   Source
	timeout  time.Duration
	fallback []string
	intn     func(int) int
}

type PickerOption func(*Picker)

func WithFallback(list []string) PickerOption {
	return func(p *Picker) {
		if len(list) > 0 {
			p.fallback = list
		}
	}
}

func WithRand(intn func(int) int) PickerOption {
	return func(p *Picker) {
		p.intn = intn
	}
}

// NewPicker 的 source 可以为 nil，此时只使用内置词表
func NewPicker(source Source, timeout time.Duration, opts ...PickerOption) *Picker {
	p := &Picker{
		source:   source,
		timeout:  timeout,
		fallback: Fallback,
		intn:     rand.Intn,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Pick 总是返回一个词；usedFallback 表示结果来自内置词表
func (p *Picker) Pick(ctx context.Context, theme string) (word string, usedFallback bool) {
	theme = strings.TrimSpace(theme)

	if theme == "" || randomTheme.MatchString(theme) || p.source == nil {
		return p.fallbackWord(), true
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	word, err := p.source.GenerateWord(ctx, theme)
	if err == nil {
		word = strings.TrimSpace(word)
		if word == "" {
			err = ErrEmptyWord
		}
	}

	if err != nil {
		zap.L().Warn(
			"生成词语失败，使用内置词表",
			zap.String("theme", theme),
			zap.Error(err),
		)

		return p.fallbackWord(), true
	}

	return word, false
}

func (p *Picker) fallbackWord() string {
	return p.fallback[p.intn(len(p.fallback))]
}
