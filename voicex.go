package voicex

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/nyaruka/voicex/client"
	"github.com/nyaruka/voicex/runtime"
	"github.com/nyaruka/voicex/web"
)

// Voicex is a service for handling inbound call events and issuing call control requests
type Voicex struct {
	ctx    context.Context
	cancel context.CancelFunc

	rt *runtime.Runtime
	wg *sync.WaitGroup

	webserver *web.Server
}

// NewVoicex creates and returns a new voicex instance
func NewVoicex(config *runtime.Config) *Voicex {
	vx := &Voicex{
		rt: &runtime.Runtime{Config: config},
		wg: &sync.WaitGroup{},
	}
	vx.ctx, vx.cancel = context.WithCancel(context.Background())

	return vx
}

// Runtime returns the runtime services of this instance
func (vx *Voicex) Runtime() *runtime.Runtime {
	return vx.rt
}

// Start starts the voicex service
func (vx *Voicex) Start() error {
	c := vx.rt.Config

	log := slog.With("comp", "voicex")

	vx.rt.HTTP = &http.Client{Timeout: time.Duration(c.RequestTimeout) * time.Millisecond}
	vx.rt.Voice = client.NewClient(vx.rt.HTTP, c.BaseURL, c.Username, c.APIKey)

	// start our web server
	vx.webserver = web.NewServer(vx.ctx, vx.rt, vx.wg)
	vx.webserver.Start()

	log.Info("voicex started", "domain", c.Domain)

	return nil
}

// Stop stops the voicex service
func (vx *Voicex) Stop() error {
	log := slog.With("comp", "voicex")
	log.Info("voicex stopping")

	vx.cancel()

	// stop our web server
	vx.webserver.Stop()

	vx.wg.Wait()

	log.Info("voicex stopped")
	return nil
}
