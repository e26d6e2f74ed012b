// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/publish"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultPublishPublicKeyFile  = "publish.public"
	defaultPublishPrivateKeyFile = "publish.private"
	defaultKeyFile               = "rpc.key"
	defaultCertificateFile       = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultLiveDatabase     = chain.Live + ".leveldb"
	defaultTestingDatabase  = chain.Testing + ".leveldb"
	defaultLocalDatabase    = chain.Local + ".leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "marketd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
	defaultFeeRate    = 25
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// QuotaType - one issuance category
type QuotaType struct {
	Category uint64 `gluamapper:"category" json:"category"`
	Ceiling  uint64 `gluamapper:"ceiling" json:"ceiling"`
}

// MarketType - initial administrative state, only used on first start
type MarketType struct {
	Owner       string      `gluamapper:"owner" json:"owner"`
	FeeReceiver string      `gluamapper:"fee_receiver" json:"fee_receiver"`
	FeeRate     uint64      `gluamapper:"fee_rate" json:"fee_rate"`
	Trading     bool        `gluamapper:"trading" json:"trading"`
	Collections []string    `gluamapper:"collections" json:"collections"`
	Currencies  []string    `gluamapper:"currencies" json:"currencies"`
	Verifier    string      `gluamapper:"verifier" json:"verifier"`
	Issuer      string      `gluamapper:"issuer" json:"issuer"`
	BaseURI     string      `gluamapper:"base_uri" json:"base_uri"`
	Quotas      []QuotaType `gluamapper:"quotas" json:"quotas"`
}

// GrantType - an asset or a balance created on first start
type GrantType struct {
	Account    string `gluamapper:"account" json:"account"`
	Collection string `gluamapper:"collection" json:"collection"`
	Asset      uint64 `gluamapper:"asset" json:"asset"`
	Currency   string `gluamapper:"currency" json:"currency"`
	Amount     uint64 `gluamapper:"amount" json:"amount"`
}

// HoldingsType - the reference holdings
type HoldingsType struct {
	Enable bool        `gluamapper:"enable" json:"enable"`
	Grants []GrantType `gluamapper:"grants" json:"grants"`
}

// ClientRPCType - raw TLS JSON-RPC plus request authentication
type ClientRPCType struct {
	listeners.RPCConfiguration `gluamapper:",squash"`
	Skew                       int `gluamapper:"skew" json:"skew"` // seconds
}

// MetricsType - plain HTTP prometheus endpoint
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Chain         string       `gluamapper:"chain" json:"chain"`
	Identity      string       `gluamapper:"identity" json:"identity"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	Market     MarketType                   `gluamapper:"market" json:"market"`
	ClientRPC  ClientRPCType                `gluamapper:"client_rpc" json:"client_rpc"`
	HttpsRPC   listeners.HTTPSConfiguration `gluamapper:"https_rpc" json:"https_rpc"`
	Publishing publish.Configuration        `gluamapper:"publishing" json:"publishing"`
	Metrics    MetricsType                  `gluamapper:"metrics" json:"metrics"`
	Holdings   HoldingsType                 `gluamapper:"holdings" json:"holdings"`
	Logging    logger.Configuration         `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Live,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultLiveDatabase,
		},

		Market: MarketType{
			FeeRate: defaultFeeRate,
			Trading: true,
		},

		ClientRPC: ClientRPCType{
			RPCConfiguration: listeners.RPCConfiguration{
				MaximumConnections: defaultRPCClients,
				Certificate:        defaultCertificateFile,
				PrivateKey:         defaultKeyFile,
			},
			Skew: int(envelope.DefaultSkew / time.Second),
		},

		// default: share config with normal RPC
		HttpsRPC: listeners.HTTPSConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Publishing: publish.Configuration{
			PublicKey:  defaultPublishPublicKeyFile,
			PrivateKey: defaultPublishPrivateKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	// Abort if the chain name is not recognised.
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("chain: %q is not supported", options.Chain)
	}

	// if database was not changed from default
	if options.Database.Name == defaultLiveDatabase {
		switch options.Chain {
		case chain.Live:
			// already correct default
		case chain.Testing:
			options.Database.Name = defaultTestingDatabase
		case chain.Local:
			options.Database.Name = defaultLocalDatabase
		}
	}

	if options.ClientRPC.Skew <= 0 {
		return nil, fmt.Errorf("client_rpc.skew: %d must be positive", options.ClientRPC.Skew)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.HttpsRPC.Certificate,
		&options.HttpsRPC.PrivateKey,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// the market identity must belong to the configured chain
func (c *Configuration) identity() (*account.Account, error) {
	identity, err := account.FromBase58(c.Identity)
	if nil != err {
		return nil, err
	}
	if chain.IsTesting(c.Chain) != identity.Test {
		return nil, fault.ErrInvalidChain
	}
	return identity, nil
}

// initial settings from the market section
func (m *MarketType) state() (settings.State, error) {
	s := settings.State{
		FeeRate: m.FeeRate,
		Trading: m.Trading,
		BaseURI: m.BaseURI,
	}

	required := []struct {
		text   string
		target **account.Account
	}{
		{m.Owner, &s.Owner},
		{m.FeeReceiver, &s.FeeReceiver},
		{m.Verifier, &s.Verifier},
		{m.Issuer, &s.Issuer},
	}
	for _, r := range required {
		if "" == r.text {
			return s, fault.ErrMissingParameters
		}
		a, err := account.FromBase58(r.text)
		if nil != err {
			return s, err
		}
		*r.target = a
	}

	for _, c := range m.Collections {
		s.Collections = append(s.Collections, asset.Collection(c))
	}
	for _, c := range m.Currencies {
		cur, err := currency.FromString(c)
		if nil != err {
			return s, err
		}
		s.Currencies = append(s.Currencies, cur)
	}

	return s, s.Validate()
}

// quota table, nil selects the default ceilings
func (m *MarketType) ceilings() (map[uint64]uint64, error) {
	if 0 == len(m.Quotas) {
		return nil, nil
	}
	ceilings := make(map[uint64]uint64, len(m.Quotas))
	for _, q := range m.Quotas {
		if 0 == q.Category || 0 == q.Ceiling {
			return nil, fault.ErrInvalidQuota
		}
		if _, ok := ceilings[q.Category]; ok {
			return nil, fault.ErrInvalidQuota
		}
		ceilings[q.Category] = q.Ceiling
	}
	return ceilings, nil
}
