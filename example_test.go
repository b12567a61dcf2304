package relog_test

import (
	"io"

	"github.com/trickstertwo/relog"
	zerologadapter "github.com/trickstertwo/relog/adapter/zerolog"
)

// Install a reloadable logger early and log through the package facade.
func Example() {
	_, err := relog.Install(zerologadapter.Configure(zerologadapter.Config{
		Writer:   io.Discard,
		MinLevel: relog.LevelInfo,
	}))
	if err != nil {
		panic(err)
	}

	relog.Info().
		Str("username", "alice").
		Int("user_id", 123).
		Msg("user login")
}

// Reconfigure a running logger in place; handles created earlier follow the
// swap on their next write.
func ExampleReloadable_Reload() {
	log, err := relog.New(zerologadapter.Configure(zerologadapter.Config{
		Writer:   io.Discard,
		MinLevel: relog.LevelInfo,
	}))
	if err != nil {
		panic(err)
	}

	worker := log.Named("worker").With(relog.FStr("queue", "emails"))
	worker.Info().Msg("draining")

	// Raise verbosity at runtime, e.g. after loading the real config file.
	err = log.Reload(zerologadapter.Configure(zerologadapter.Config{
		Writer:   io.Discard,
		MinLevel: relog.LevelDebug,
	}))
	if err != nil {
		panic(err)
	}

	worker.Debug().Msg("now visible")
}

// Freeze once configuration has settled; logging drops its synchronization
// from then on.
func ExampleReloadable_Freeze() {
	log, err := relog.New(zerologadapter.Configure(zerologadapter.Config{
		Writer:   io.Discard,
		MinLevel: relog.LevelInfo,
	}))
	if err != nil {
		panic(err)
	}

	if _, err := log.Freeze(); err != nil {
		panic(err)
	}

	log.Info().Str("state", "serving").Msg("pinned")
}

// Derive request-scoped handles; bound fields ride along on every entry.
func ExampleLogger_With() {
	log, err := relog.New(zerologadapter.Configure(zerologadapter.Config{
		Writer: io.Discard,
	}))
	if err != nil {
		panic(err)
	}

	reqLog := log.With(
		relog.FStr("request_id", "req-12345"),
		relog.FStr("method", "GET"),
	)

	reqLog.Info().Str("path", "/api/users").Msg("processing request")
	reqLog.Info().Int("status", 200).Msg("request completed")
}

// Render a message template and emit the plan at any level.
func ExampleLogger_Bind() {
	log, err := relog.New(zerologadapter.Configure(zerologadapter.Config{
		Writer: io.Discard,
	}))
	if err != nil {
		panic(err)
	}

	if bt, ok := log.Bind("user {id} logged in from {region}", 42, "eu-west-1"); ok {
		log.Write(bt.Entry(relog.LevelInfo))
	}
}
