package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/rig"
	"github.com/younwookim/stagehand/internal/application/scene/cutscene"
	"github.com/younwookim/stagehand/internal/application/scene/lose"
	"github.com/younwookim/stagehand/internal/application/scene/playing"
	"github.com/younwookim/stagehand/internal/application/scene/start"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

// Deps are the collaborators shared by the scene builders
type Deps struct {
	Engine      *engine.Engine
	Slot        *assets.Slot
	Rig         rig.Config
	PlayerSpeed float32
	AutoAdvance time.Duration
	Logger      *log.Logger
}

// Builders returns one builder per application state
func Builders(d Deps) map[state.ApplicationState]orchestrator.Builder {
	return map[state.ApplicationState]orchestrator.Builder{
		state.StateStart: &start.Builder{
			Engine: d.Engine,
			Logger: d.Logger.WithPrefix("start"),
		},
		state.StateCutscene: &cutscene.Builder{
			Engine:      d.Engine,
			Slot:        d.Slot,
			AutoAdvance: d.AutoAdvance,
			Logger:      d.Logger.WithPrefix("cutscene"),
		},
		state.StateGame: &playing.Builder{
			Engine: d.Engine,
			Slot:   d.Slot,
			Rig:    d.Rig,
			Speed:  d.PlayerSpeed,
			Logger: d.Logger.WithPrefix("game"),
		},
		state.StateLose: &lose.Builder{
			Engine: d.Engine,
			Logger: d.Logger.WithPrefix("lose"),
		},
	}
}
