// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/messagebus"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/publish"
	"github.com/bitmark-inc/marketd/rpc"
	"github.com/bitmark-inc/marketd/rpc/server"
	"github.com/bitmark-inc/marketd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile, nil)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	identity, err := theConfiguration.identity()
	if nil != err {
		log.Criticalf("identity: %q  error: %s", theConfiguration.Identity, err)
		exitwithstatus.Message("identity: %q  error: %s", theConfiguration.Identity, err)
	}
	initial, err := theConfiguration.Market.state()
	if nil != err {
		log.Criticalf("market settings error: %s", err)
		exitwithstatus.Message("market settings error: %s", err)
	}
	ceilings, err := theConfiguration.Market.ceilings()
	if nil != err {
		log.Criticalf("market quotas error: %s", err)
		exitwithstatus.Message("market quotas error: %s", err)
	}

	// general info
	log.Infof("chain: %s", theConfiguration.Chain)
	log.Infof("identity: %s", identity)
	log.Infof("database: %q", theConfiguration.Database.Name)

	// connection info
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "HttpsRPC", theConfiguration.HttpsRPC)
	log.Debugf("%s = %#v", "Publishing", theConfiguration.Publishing)

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(theConfiguration.Database.Name, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	firstStart := isEmpty(store.Pool.Settings)

	// events only queue when something will drain them
	var sink event.Sink = event.Discard{}
	queue := messagebus.New(messagebus.QueueSize)
	publishing := 0 != len(theConfiguration.Publishing.Broadcast)
	if publishing {
		sink = queue
	}

	ctx := context.Background()
	m, err := market.New(ctx, store, sink, market.Options{
		Identity: identity,
		Chain:    theConfiguration.Chain,
		Initial:  initial,
		Ceilings: ceilings,
	})
	if nil != err {
		log.Criticalf("market initialise error: %s", err)
		exitwithstatus.Message("market initialise error: %s", err)
	}

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, m) {
		return
	}

	if !theConfiguration.Holdings.Enable {
		log.Warn("holdings: RPC access disabled")
		m.Holdings = nil
	} else if firstStart {
		if err := grant(ctx, log, m, theConfiguration.Holdings.Grants); nil != err {
			log.Criticalf("holdings grant error: %s", err)
			exitwithstatus.Message("holdings grant error: %s", err)
		}
	}

	collector := metrics.New(queue.Dropped)
	processes := []background.Process{}

	// start up the publishing background processes
	publicKey := ""
	if publishing {
		publisher, err := publish.New(&theConfiguration.Publishing, theConfiguration.Chain, queue)
		if nil != err {
			log.Criticalf("publish initialise error: %s", err)
			exitwithstatus.Message("publish initialise error: %s", err)
		}
		publicKey = hex.EncodeToString(publisher.PublicKey())
		processes = append(processes, publisher)
	}

	// if memory logging enabled
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, &memstats{log: logger.New("memory"), dropped: queue.Dropped})
	}

	bg := background.Start(processes...)
	defer bg.Stop()

	// certificates are configured as files
	if err := loadCertificates(&theConfiguration.ClientRPC.RPCConfiguration, &theConfiguration.HttpsRPC); nil != err {
		log.Criticalf("rpc certificate error: %s", err)
		exitwithstatus.Message("rpc certificate error: %s", err)
	}

	// start up the rpc background processes
	err = rpc.Initialise(&theConfiguration.ClientRPC.RPCConfiguration, &theConfiguration.HttpsRPC, m, server.Parameters{
		Version:   version,
		Skew:      time.Duration(theConfiguration.ClientRPC.Skew) * time.Second,
		PublicKey: publicKey,
		Dropped:   queue.Dropped,
		Metrics:   collector,
	})
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

	// plain HTTP metrics listener
	// not associated with the HTTPS RPC server
	if "" != theConfiguration.Metrics.Listen {
		s := &http.Server{
			Addr:              theConfiguration.Metrics.Listen,
			Handler:           collector.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Infof("metrics listener on: %s", theConfiguration.Metrics.Listen)
			if err := s.ListenAndServe(); nil != err && http.ErrServerClosed != err {
				log.Errorf("metrics listener error: %s", err)
			}
		}()
		defer s.Close()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
