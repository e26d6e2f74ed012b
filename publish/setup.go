// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast committed events to subscribers
package publish

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/messagebus"
	"github.com/bitmark-inc/marketd/zmqutil"
)

// Configuration - a block of configuration data
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

const zapDomain = "marketd-publish"

// Publisher - drains a queue onto CURVE secured PUB sockets
type Publisher struct {
	log       *logger.L
	chain     string
	queue     <-chan messagebus.Message
	senders   []sender
	publicKey []byte
	clock     clock
}

// New - read the keys and bind the broadcast addresses
func New(configuration *Configuration, chain string, queue *messagebus.Queue) (*Publisher, error) {
	log := logger.New("publish")

	privateKey, err := zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
	if nil != err {
		log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
		return nil, err
	}
	publicKey, err := zmqutil.ReadPublicKeyFile(configuration.PublicKey)
	if nil != err {
		log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
		return nil, err
	}
	log.Tracef("public key: %x", publicKey)

	if err := zmqutil.StartAuthentication(); nil != err {
		return nil, err
	}

	socket4, socket6, err := zmqutil.NewBind(log, zmq.PUB, zapDomain, privateKey, publicKey, configuration.Broadcast)
	if nil != err {
		return nil, err
	}

	p := newPublisher(log, chain, queue.Chan(), nil)
	p.publicKey = publicKey
	for _, s := range []*zmq.Socket{socket4, socket6} {
		if nil != s {
			p.senders = append(p.senders, s)
		}
	}
	return p, nil
}

func newPublisher(log *logger.L, chain string, queue <-chan messagebus.Message, senders []sender) *Publisher {
	return &Publisher{
		log:     log,
		chain:   chain,
		queue:   queue,
		senders: senders,
		clock:   systemClock,
	}
}

// PublicKey - the CURVE key subscribers must use
func (p *Publisher) PublicKey() []byte {
	return p.publicKey
}
