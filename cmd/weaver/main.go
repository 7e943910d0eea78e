package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/weavercmd/weaver/internal/channel"
	"github.com/weavercmd/weaver/internal/commands"
	"github.com/weavercmd/weaver/internal/config"
	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/history"
	"github.com/weavercmd/weaver/internal/luasource"
	"github.com/weavercmd/weaver/internal/macro"
	"github.com/weavercmd/weaver/internal/metrics"
	"github.com/weavercmd/weaver/internal/output"
	"github.com/weavercmd/weaver/internal/scheduler"
	"github.com/weavercmd/weaver/internal/script"
	"github.com/weavercmd/weaver/internal/vars"
	"github.com/weavercmd/weaver/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		os.Exit(0)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0750); err == nil {
			if f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
				log.SetOutput(f)
			}
		}
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := openHistory(cfg.History)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	registry := vars.NewRegistry()
	eng := engine.New()
	err = commands.Register(eng, commands.Options{
		Vars:          registry,
		History:       store,
		MaxIterations: cfg.Engine.MaxIterations,
	})
	if err != nil {
		return err
	}

	// Drop-in command sources: lua scripts and yaml macros.
	if dir := cfg.Commands.LuaPath; dir != "" {
		cmds, err := luasource.Load(dir)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			if err := eng.Register(cmd); err != nil {
				log.Printf("Warning: lua command %s: %v", cmd.Name(), err)
			}
		}
	}
	if dir := cfg.Commands.MacroPath; dir != "" {
		rt := macro.Runtime{Engine: eng, Vars: registry, MaxIterations: cfg.Engine.MaxIterations}
		cmds, err := macro.Load(dir, rt)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			if err := eng.Register(cmd); err != nil {
				log.Printf("Warning: macro command %s: %v", cmd.Name(), err)
			}
		}
	}

	sink := output.Sink(output.NewWriterSink(os.Stdout))
	if cfg.Output.Redis.Enabled {
		redisSink := output.NewRedisSink(cfg.Output.Redis.Addr, cfg.Output.Redis.Channel)
		defer func() { _ = redisSink.Close() }()
		sink = output.Multi{sink, redisSink}
	}

	var mtr *metrics.Metrics
	if cfg.Metrics.Enabled {
		mtr = metrics.New()
		mux := http.NewServeMux()
		mux.Handle("/metrics", mtr.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Printf("Warning: metrics endpoint: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Scheduler.Jobs) > 0 {
		// Scheduled scripts get their own engine and registry: one logical
		// conversation per engine instance, and cron fires off the console
		// goroutine.
		schedEngine := engine.New()
		schedVars := vars.NewRegistry()
		err := commands.Register(schedEngine, commands.Options{
			Vars:          schedVars,
			History:       store,
			MaxIterations: cfg.Engine.MaxIterations,
		})
		if err != nil {
			return err
		}
		sched := scheduler.New(runScript(schedEngine, schedVars, cfg.Engine.MaxIterations))
		for _, job := range cfg.Scheduler.Jobs {
			if err := sched.Add(job); err != nil {
				log.Printf("Warning: %v", err)
			}
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.Channels.WebSocket.Enabled {
		server := &channel.Server{NewConversation: func() *channel.Conversation {
			wsEngine := engine.New()
			wsVars := vars.NewRegistry()
			err := commands.Register(wsEngine, commands.Options{
				Vars:          wsVars,
				History:       store,
				MaxIterations: cfg.Engine.MaxIterations,
			})
			if err != nil {
				log.Printf("Warning: websocket engine: %v", err)
			}
			return &channel.Conversation{Engine: wsEngine, History: store, Metrics: mtr}
		}}
		go func() {
			if err := server.ListenAndServe(ctx, cfg.Channels.WebSocket.Addr); err != nil {
				log.Printf("Warning: websocket channel: %v", err)
			}
		}()
	}

	console := &channel.Console{
		Conv:   &channel.Conversation{Engine: eng, History: store, Metrics: mtr},
		In:     os.Stdin,
		Out:    sink,
		Prompt: os.Stdout,
	}
	sink.Write(version.Get().String())
	err = console.Run()
	eng.Mediator().CancelAll()
	return err
}

// runScript builds the scheduler's script runner. Each run compiles fresh
// against the scheduler's registry; the scheduler runs jobs one at a time.
func runScript(eng *engine.Engine, registry *vars.Registry, maxIterations int) scheduler.RunFunc {
	return func(path string) (bool, string) {
		source, err := os.ReadFile(path)
		if err != nil {
			return false, err.Error()
		}
		prog, err := script.Compile(string(source), registry)
		if err != nil {
			return false, err.Error()
		}
		res := prog.Run(eng, maxIterations)
		return res.Success, res.Message
	}
}

func openHistory(cfg config.HistoryConfig) (history.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return history.NewMemoryStore(cfg.Capacity), nil
	default:
		return history.Open(cfg.Driver, cfg.DSN)
	}
}
