package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/scheduler"
)

// FrameHistory is a fixed-size ring of frame times in milliseconds.
type FrameHistory struct {
	samples []float32
	next    int
	filled  int
}

func NewFrameHistory(frames int) *FrameHistory {
	return &FrameHistory{samples: make([]float32, max(frames, 1))}
}

// Push records one frame.
func (h *FrameHistory) Push(dt time.Duration) {
	h.samples[h.next] = float32(dt.Seconds() * 1000)
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Average is the mean of the recorded frames, or 0 before the first Push.
func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var total float32
	for _, ms := range h.samples {
		total += ms
	}
	return total / float32(h.filled)
}

func (h *FrameHistory) Samples() []float32 {
	return h.samples
}

// Inspector shows the game state, input counters and per-system timings.
type Inspector struct {
	Engine    *engine.Engine
	Scheduler *scheduler.Scheduler
	Input     *engine.InputSystem
	History   *FrameHistory
}

func NewInspector(e *engine.Engine, sched *scheduler.Scheduler, input *engine.InputSystem) *Inspector {
	return &Inspector{
		Engine:    e,
		Scheduler: sched,
		Input:     input,
		History:   NewFrameHistory(120),
	}
}

// Item wraps the inspector for a System.
func (in *Inspector) Item() Item {
	return Item{Render: in.Render}
}

// Lines returns the text rows of the game panel.
func (in *Inspector) Lines() []string {
	snap := in.Engine.Snapshot()
	lines := []string{
		fmt.Sprintf("Game: %s", snap.ID),
		fmt.Sprintf("State: %s", snap.State),
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Level: %d", snap.Level),
		fmt.Sprintf("Lines: %d", snap.Lines),
		fmt.Sprintf("Piece: %s at %v", snap.PieceKind, snap.PieceCells),
		fmt.Sprintf("Full rows: %v", in.Engine.Well().FullRows()),
	}
	if in.Input != nil {
		lines = append(lines, fmt.Sprintf("Commands: %d applied, %d rejected", in.Input.Applied, in.Input.Rejected))
	}
	return lines
}

func (in *Inspector) Render() {
	if !imgui.BeginV("Blockfall", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for _, line := range in.Lines() {
		imgui.Text(line)
	}

	imgui.Separator()
	avg := in.History.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}
	samples := in.History.Samples()
	imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))

	if in.Scheduler != nil && imgui.TreeNodeStr("Systems") {
		stats := in.Scheduler.GetStats()
		imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// FrameSystem records each frame's delta into the inspector's history.
type FrameSystem struct {
	History *FrameHistory
}

func (s *FrameSystem) Execute(frame *scheduler.UpdateFrame) {
	s.History.Push(frame.DeltaTime)
}
