package app

import (
	"time"

	"github.com/coursecal/coursecal/internal/config"
	"github.com/coursecal/coursecal/internal/utils"
	"github.com/coursecal/coursecal/pkg/convert"
	"github.com/coursecal/coursecal/pkg/ics"
	"github.com/coursecal/coursecal/pkg/schedule"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Expander *schedule.Expander
	Encoder  *ics.Encoder

	Converter      convert.Converter
	ConvertHandler *convert.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(cfg config.Application, location *time.Location, windows []schedule.ExclusionWindow) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Expander = schedule.NewExpander(location, windows)
	deps.Encoder = ics.NewEncoder(cfg.Calendar.ProductID, cfg.Calendar.Timezone, deps.Clock)

	deps.Converter = convert.NewConverter(deps.Expander, deps.Encoder)
	deps.ConvertHandler = convert.NewHandler(deps.Converter)

	return deps
}
