package main

import (
	"flag"
	"fmt"
	"os"

	caches "github.com/jxy918/casino-holdem/caching"
	"github.com/jxy918/casino-holdem/game"
	"github.com/jxy918/casino-holdem/logging"
	"github.com/jxy918/casino-holdem/manager"
	"github.com/jxy918/casino-holdem/nats"
	"github.com/jxy918/casino-holdem/test"
	"github.com/jxy918/casino-holdem/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

func main() {
	level := logging.SetGlobalLevel(util.RoundServerEnvironment.GetLogLevel())

	var runHandScript = flag.String("hand-script", "test/hand-scripts", "runs tests with hand script files")
	var testName = flag.String("testname", "", "runs a specific test")
	var store = flag.String("store", "", "round state store for the scripts: memory or redis (default: drive rounds directly)")
	var publish = flag.Bool("publish", false, "publish action log entries to NATS")
	flag.Parse()

	mainLogger.Debug().Msgf("Log level: %s", level)
	if *runHandScript == "" {
		return
	}

	m, cleanup, err := newRoundManager(*store, *publish)
	if err != nil {
		mainLogger.Error().Msgf("%v", err)
		os.Exit(1)
	}
	defer cleanup()

	err = test.RunHandScriptTests(*runHandScript, *testName, m)
	if err != nil {
		mainLogger.Error().Msgf("%v", err)
		cleanup()
		os.Exit(1)
	}
}

func newRoundManager(store string, publish bool) (*manager.RoundManager, func(), error) {
	cleanup := func() {}
	if store == "" && !publish {
		return nil, cleanup, nil
	}

	var persist game.PersistRoundState
	switch store {
	case "redis":
		addr, err := util.RoundServerEnvironment.GetRedisAddr()
		if err != nil {
			return nil, cleanup, err
		}
		redisTracker := game.NewRedisRoundStateTracker(addr, util.RoundServerEnvironment.GetRedisPW(), util.RoundServerEnvironment.GetRedisDB())
		persist = redisTracker
		cleanup = func() { redisTracker.Close() }
	case "memory", "":
		persist = game.NewMemoryRoundStateTracker()
	default:
		return nil, cleanup, fmt.Errorf("Unknown round state store: %s", store)
	}

	var notifier game.RoundNotifier
	if publish {
		publisher, err := nats.NewRoundPublisher(util.RoundServerEnvironment.GetNatsURL())
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		notifier = publisher
		closeStore := cleanup
		cleanup = func() {
			publisher.Close()
			closeStore()
		}
	}

	results, err := caches.NewResultCache(caches.DefaultResultCacheSize)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	mainLogger.Info().Str("store", store).Bool("publish", publish).Msg("Running hand scripts through the round manager")
	return manager.NewRoundManager(persist, notifier, results), cleanup, nil
}
