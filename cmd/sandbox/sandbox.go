package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/germanamz/tandy/pkg/engine"
)

// openingCrawl is printed, in order, when the application starts.
var openingCrawl = []string{
	"It is a period of civil wars in the galaxy. A brave alliance of underground freedom fighters has challenged the tyranny and oppression of the awesome <b>GALACTIC EMPIRE</b>.\n \n",
	"Striking from a fortress hidden among the billion stars of the galaxy, rebel spaceships have won their first victory in a battle with the powerful Imperial Starfleet. The <b>EMPIRE</b> fears that another defeat could bring a thousand more solar systems into the rebellion, and Imperial control over the galaxy would be <u>lost forever</u>.\n \n",
	"To crush the rebellion once and for all, the <b>EMPIRE</b> is constructing <u>a sinister new battle station</u>. Powerful enough to destroy an entire planet, its completion spells certain doom for the champions of freedom.\n \n",
}

// Sandbox is the demo application. It keeps no state; the engine loop comes
// from the embedded Base.
type Sandbox struct {
	engine.Base
}

// OnStart logs the startup records and prints the opening crawl.
func (s *Sandbox) OnStart(_ context.Context, env *engine.Env) {
	env.Log.Info("Application Start!")
	env.Log.Warn("Incoming Copyright Infringment!!!")

	for _, block := range openingCrawl {
		if err := env.Text.Print(block); err != nil {
			env.Log.Error("text output failed", zap.Error(err))
		}
	}
}

// CreateApplication is the factory handed to engine.Main.
func CreateApplication() engine.Application {
	return &Sandbox{}
}
