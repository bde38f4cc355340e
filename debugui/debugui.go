// Package debugui draws Dear ImGui inspector windows over the game and keeps
// the game's input handling out of ImGui's way.
package debugui

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/scheduler"
)

// Item holds an ImGui render function that should run once per frame.
type Item struct {
	Render func()
}

// InputState mirrors ImGui's input capture flags for the current frame.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// System refreshes Input and defers every item's render to the end of the
// frame, after the game systems have run.
type System struct {
	Items []Item
	Input *InputState

	// Capture reads the capture flags. Nil means ask the live ImGui context.
	Capture func() InputState
}

func (s *System) Execute(frame *scheduler.UpdateFrame) {
	capture := s.Capture
	if capture == nil {
		capture = currentCapture
	}
	if s.Input != nil {
		*s.Input = capture()
	}

	for _, item := range s.Items {
		frame.Commands.Defer(item.Render)
	}
}

func currentCapture() InputState {
	io := imgui.CurrentIO()
	return InputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// Backend wraps the Ebiten ImGui backend.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// NewBackend creates the ImGui context for an Ebiten window of the given size.
// ImGui's ini persistence is disabled.
func NewBackend(title string, width, height int) *Backend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Backend{EbitenBackend: b}
}
