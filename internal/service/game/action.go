package game

// Event 是房间事件循环处理的事件，所有实现都在本文件内
type Event interface {
	event()
}

type SpeechAttached struct {
	Ch Channel
}

type SpeechDetached struct {
	Ch Channel
}

// 语音中继识别出的一句来电者发言
type SpeechPrompt struct {
	Ch   Channel
	Text string
}

type WebJoined struct {
	Ch   Channel
	Role Role
}

type WebDetached struct {
	Ch Channel
}

type StrokeDrawn struct {
	Ch      Channel
	Segment Segment
}

type HintSent struct {
	Ch   Channel
	Text string
}

type CanvasCleared struct {
	Ch Channel
}

// 取词协程的结果，ReqID 与房间当前等待的请求一致时才会生效
type wordPicked struct {
	ReqID    uint64
	Theme    string
	Word     string
	Fallback bool
}

type snapshotQuery struct {
	Reply chan Snapshot
}

func (SpeechAttached) event() {}
func (SpeechDetached) event() {}
func (SpeechPrompt) event()   {}
func (WebJoined) event()      {}
func (WebDetached) event()    {}
func (StrokeDrawn) event()    {}
func (HintSent) event()       {}
func (CanvasCleared) event()  {}
func (wordPicked) event()     {}
func (snapshotQuery) event()  {}
