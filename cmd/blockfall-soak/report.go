package main

import (
	"io"
	"text/template"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/scheduler"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	DeltaTime time.Duration

	// Results
	Frames       int64
	TotalTime    time.Duration
	FrameTime    Stats
	Games        int
	BestScore    int
	CurrentScore int
	Lines        int
	Applied      int64
	Rejected     int64
	Systems      []scheduler.SystemStats
}

// finishGame folds a finished game into the totals.
func (r *Report) finishGame(e *engine.Engine) {
	r.Games++
	r.Lines += e.Lines()
	r.BestScore = max(r.BestScore, e.Score())
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Blockfall Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Frame Delta:** {{.DeltaTime}}

## Games
- **Finished Games:** {{.Games}}
- **Best Score:** {{.BestScore}}
- **Current Score:** {{.CurrentScore}}
- **Lines Cleared:** {{.Lines}}
- **Commands:** {{.Applied}} applied, {{.Rejected}} rejected

## Performance
- **Frames:** {{.Frames}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}
{{if .Systems}}
## Systems
| System | Runs | Avg | Max |
|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}{{end}}`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
