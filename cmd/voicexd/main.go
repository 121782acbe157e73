package main

import (
	"context"
	"fmt"
	ulog "log"
	"log/slog"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/nyaruka/voicex"
	"github.com/nyaruka/voicex/runtime"
	"github.com/nyaruka/voicex/vxml"
	"github.com/nyaruka/voicex/web"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

var (
	// https://goreleaser.com/cookbooks/using-main.version
	version = "dev"
	date    = "unknown"
)

func main() {
	config := runtime.LoadConfig()
	config.Version = version

	// configure our logger
	logHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel})
	slog.SetDefault(slog.New(logHandler))

	// if we have a DSN entry, try to initialize it
	if config.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{Dsn: config.SentryDSN, ServerName: config.InstanceID, Release: version, AttachStacktrace: true})
		if err != nil {
			slog.Error("error initiating sentry client", "error", err, "dsn", config.SentryDSN)
			os.Exit(1)
		}

		defer sentry.Flush(2 * time.Second)

		slog.SetDefault(slog.New(
			slogmulti.Fanout(
				logHandler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			),
		))
	}

	log := slog.With("comp", "main")
	log.Info("starting voicexd", "version", version, "released", date)

	web.RegisterCallHandler("/voice/handle", handleCall)

	vx := voicex.NewVoicex(config)
	if err := vx.Start(); err != nil {
		log.Error("unable to start server", "error", err)
		os.Exit(1)
	}

	// handle our signals
	handleSignals(vx)
}

// handleCall is a minimal reference flow - prompt for a digit on the first
// event, read it back on the next
func handleCall(ctx context.Context, rt *runtime.Runtime, call *web.Call) error {
	b := vxml.NewBuilder()

	if call.Digits != "" {
		b.Say(fmt.Sprintf("You pressed %s. Goodbye.", call.Digits), nil)
	} else {
		err := b.GetDigits("Welcome. Press any key.", &vxml.GetDigitsOptions{
			Timeout:     30,
			NumDigits:   1,
			CallbackURL: fmt.Sprintf("https://%s/voice/handle", rt.Config.Domain),
			Say:         &vxml.SayOptions{},
		})
		if err != nil {
			return err
		}
	}

	doc, err := b.Build()
	if err != nil {
		return err
	}
	return call.Respond(nil, doc)
}

// handleSignals takes care of trapping quit, interrupt or terminate signals and doing the right thing
func handleSignals(vx *voicex.Voicex) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	for {
		sig := <-sigs
		log := slog.With("comp", "main", "signal", sig)

		switch sig {
		case syscall.SIGQUIT:
			buf := make([]byte, 1<<20)
			stacklen := goruntime.Stack(buf, true)
			log.Info("received quit signal, dumping stack")
			ulog.Printf("\n%s", buf[:stacklen])
		case syscall.SIGINT, syscall.SIGTERM:
			log.Info("received exit signal, exiting")
			vx.Stop()
			return
		}
	}
}
