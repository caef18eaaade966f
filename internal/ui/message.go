package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/daylist/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPoolFetched MsgKind = iota
	MsgProgressUpdate
	MsgPublishComplete
	MsgProgressDone
)

type poolFetched struct {
	result *tasks.FetchResult
	err    error
}

type publishComplete struct {
	result *tasks.PublishResult
	err    error
}

// poolFetchedMsg is the constructor for [MsgPoolFetched]
func poolFetchedMsg(result *tasks.FetchResult, err error) Msg {
	return Msg{kind: MsgPoolFetched, data: poolFetched{result, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// publishCompleteMsg is the constructor for [MsgPublishComplete]
func publishCompleteMsg(result *tasks.PublishResult, err error) Msg {
	return Msg{kind: MsgPublishComplete, data: publishComplete{result, err}}
}

// progressDoneMsg is sent once the progress channel is closed.
func progressDoneMsg() Msg {
	return Msg{kind: MsgProgressDone}
}
