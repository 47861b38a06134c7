package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// 入站消息只解析 type 字段，再按类型解出具体结构
type envelope struct {
	Type string `json:"type"`
}

// 语音中继入站消息类型
const (
	REQ_SPEECH_SETUP  = "setup"
	REQ_SPEECH_PROMPT = "prompt"
)

// SpeechMessage 的实现只有本文件中的类型
type SpeechMessage interface {
	speechMessage()
}

type SetupMessage struct {
	SessionID        string            `json:"sessionId"`
	CallSid          string            `json:"callSid"`
	CustomParameters map[string]string `json:"customParameters"`
}

type PromptMessage struct {
	VoicePrompt string `json:"voicePrompt"`
}

func (SetupMessage) speechMessage()  {}
func (PromptMessage) speechMessage() {}

func DecodeSpeechMessage(raw []byte) (SpeechMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	switch env.Type {
	case REQ_SPEECH_SETUP:
		var msg SetupMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		return msg, nil

	case REQ_SPEECH_PROMPT:
		var msg PromptMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		if strings.TrimSpace(msg.VoicePrompt) == "" {
			return nil, fmt.Errorf("%w: empty voicePrompt", ErrMalformedMessage)
		}
		return msg, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// 浏览器入站消息类型
const (
	REQ_JOIN_WEB     = "joinWeb"
	REQ_DRAW_SEGMENT = "drawSegment"
	REQ_DRAWER_CHAT  = "drawerChat"
	REQ_CLEAR_CANVAS = "clearCanvas"
)

type WebMessage interface {
	webMessage()
}

type JoinWebMessage struct {
	RoomID string `json:"roomId"`
	Role   string `json:"role"`
}

type DrawSegmentMessage struct {
	Segment Segment
}

type DrawerChatMessage struct {
	Text string `json:"text"`
}

type ClearCanvasMessage struct{}

func (JoinWebMessage) webMessage()     {}
func (DrawSegmentMessage) webMessage() {}
func (DrawerChatMessage) webMessage()  {}
func (ClearCanvasMessage) webMessage() {}

// 坐标必须齐全，缺失任何一个都视为格式错误
type rawSegment struct {
	X1    *float64 `json:"x1"`
	Y1    *float64 `json:"y1"`
	X2    *float64 `json:"x2"`
	Y2    *float64 `json:"y2"`
	Color string   `json:"color"`
	Width float64  `json:"width"`
}

func DecodeWebMessage(raw []byte) (WebMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}

	switch env.Type {
	case REQ_JOIN_WEB:
		var msg JoinWebMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		msg.RoomID = strings.TrimSpace(msg.RoomID)
		if msg.RoomID == "" {
			return nil, fmt.Errorf("%w: missing roomId", ErrMalformedMessage)
		}
		return msg, nil

	case REQ_DRAW_SEGMENT:
		var rs rawSegment
		if err := json.Unmarshal(raw, &rs); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		if rs.X1 == nil || rs.Y1 == nil || rs.X2 == nil || rs.Y2 == nil {
			return nil, fmt.Errorf("%w: incomplete segment", ErrMalformedMessage)
		}
		return DrawSegmentMessage{Segment: Segment{
			X1: *rs.X1, Y1: *rs.Y1, X2: *rs.X2, Y2: *rs.Y2,
			Color: rs.Color,
			Width: rs.Width,
		}}, nil

	case REQ_DRAWER_CHAT:
		var msg DrawerChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
		}
		return msg, nil

	case REQ_CLEAR_CANVAS:
		return ClearCanvasMessage{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// 出站消息类型
const (
	RESP_SPEECH_TEXT      = "text"
	RESP_STATUS           = "status"
	RESP_MENU             = "menu"
	RESP_INIT_DRAWING     = "initDrawing"
	RESP_PICTIONARY_START = "pictionaryStart"
	RESP_ROUND_RESULT     = "roundResult"
	RESP_GUESS            = "guess"
	RESP_DRAWER_CHAT      = "drawerChat"
	RESP_CLEAR_CANVAS     = "clearCanvas"
	RESP_DRAW_SEGMENT     = "drawSegment"
)

const OUTCOME_CORRECT = "correct"

// 发给语音中继的整句文本，不分片
type SpeechText struct {
	Type  string `json:"type"`
	Token string `json:"token"`
	Last  bool   `json:"last"`
}

type Status struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Menu struct {
	Type string `json:"type"`
}

type InitDrawing struct {
	Type     string    `json:"type"`
	Segments []Segment `json:"segments"`
}

// Word 只对画手填写
type PictionaryStart struct {
	Type string `json:"type"`
	Word string `json:"word,omitempty"`
}

type RoundResult struct {
	Type    string `json:"type"`
	Outcome string `json:"outcome"`
	Word    string `json:"word"`
}

type Guess struct {
	Type    string `json:"type"`
	Guess   string `json:"guess"`
	Correct bool   `json:"correct"`
}

type DrawerChat struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ClearCanvas struct {
	Type string `json:"type"`
}

type DrawSegment struct {
	Type string `json:"type"`
	Segment
}

func NewSpeechText(text string) SpeechText {
	return SpeechText{Type: RESP_SPEECH_TEXT, Token: text, Last: true}
}

func NewStatus(message string) Status {
	return Status{Type: RESP_STATUS, Message: message}
}

func NewMenu() Menu {
	return Menu{Type: RESP_MENU}
}

func NewInitDrawing(segments []Segment) InitDrawing {
	return InitDrawing{Type: RESP_INIT_DRAWING, Segments: segments}
}

func NewPictionaryStart(word string) PictionaryStart {
	return PictionaryStart{Type: RESP_PICTIONARY_START, Word: word}
}

func NewRoundResult(outcome, word string) RoundResult {
	return RoundResult{Type: RESP_ROUND_RESULT, Outcome: outcome, Word: word}
}

func NewGuess(text string, correct bool) Guess {
	return Guess{Type: RESP_GUESS, Guess: text, Correct: correct}
}

func NewDrawerChat(text string) DrawerChat {
	return DrawerChat{Type: RESP_DRAWER_CHAT, Text: text}
}

func NewClearCanvas() ClearCanvas {
	return ClearCanvas{Type: RESP_CLEAR_CANVAS}
}

func NewDrawSegment(seg Segment) DrawSegment {
	return DrawSegment{Type: RESP_DRAW_SEGMENT, Segment: seg}
}
