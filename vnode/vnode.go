// Copyright 2024 RippleDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vnode bootstraps one storage shard: create, open and close of the
// shard directory and its stores. Query execution and replication live
// elsewhere; this is the plumbing those layers stand on.
package vnode

import (
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rippledb/ripple/sql"
)

var log = logrus.WithField("component", "vnode")

const (
	infoFile     = "vnode.yaml"
	infoTempFile = "vnode.yaml.tmp"

	metaDir = "meta"
	tsdbDir = "tsdb"
	walDir  = "wal"
	tqDir   = "tq"
)

// Config is the shard descriptor persisted next to the stores.
type Config struct {
	VgID         int32         `yaml:"vgId"`
	DBName       string        `yaml:"dbName"`
	DBID         int64         `yaml:"dbId"`
	Precision    sql.Precision `yaml:"precision"`
	DaysPerFile  int32         `yaml:"daysPerFile"`
	KeepDays     int32         `yaml:"keepDays"`
	CacheBlocks  int32         `yaml:"cacheBlocks"`
	WalLevel     int8          `yaml:"walLevel"`
	WalFsyncMs   int32         `yaml:"walFsyncPeriod"`
	BufPoolBytes int64         `yaml:"bufPoolBytes"`
}

// DefaultConfig is used when opening a shard whose descriptor predates a
// config field.
var DefaultConfig = Config{
	DaysPerFile:  10,
	KeepDays:     3650,
	CacheBlocks:  16,
	WalLevel:     1,
	WalFsyncMs:   3000,
	BufPoolBytes: 64 << 20,
}

// State is the recovery state committed with the descriptor.
type State struct {
	Committed int64 `yaml:"committed"`
	Applied   int64 `yaml:"applied"`
	CommitID  int64 `yaml:"commitId"`
}

// Info is the persisted descriptor: config plus recovery state.
type Info struct {
	Config Config `yaml:"config"`
	State  State  `yaml:"state"`
}

// Vnode is an open shard.
type Vnode struct {
	path   string
	config Config
	state  State

	pool *bufPool
	meta *bolt.DB
	tsdb *bolt.DB
	wal  *bolt.DB
	tq   *bolt.DB
}

// VgID returns the shard's vgroup id.
func (v *Vnode) VgID() int32 { return v.config.VgID }

// Config returns the shard's descriptor config.
func (v *Vnode) Config() Config { return v.config }

// State returns the recovery state loaded at open.
func (v *Vnode) State() State { return v.state }

// Create initializes a shard directory: writes and commits the descriptor.
// The shard is not opened.
func Create(path string, cfg *Config) error {
	if cfg != nil && cfg.VgID <= 0 {
		return errors.Errorf("vnode: invalid vgId %d", cfg.VgID)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrap(err, "vnode: create shard dir")
	}

	info := Info{Config: DefaultConfig}
	if cfg != nil {
		info.Config = *cfg
	}
	info.State.Committed = -1
	info.State.Applied = -1

	if err := SaveInfo(path, &info); err != nil {
		log.WithField("vgId", info.Config.VgID).WithError(err).Error("failed to save vnode info")
		return err
	}
	if err := CommitInfo(path, &info); err != nil {
		log.WithField("vgId", info.Config.VgID).WithError(err).Error("failed to commit vnode info")
		return err
	}
	log.WithField("vgId", info.Config.VgID).Info("vnode is created")
	return nil
}

// Destroy removes the shard directory and everything under it.
func Destroy(path string) error {
	log.WithField("path", path).Info("vnode is destroyed")
	return os.RemoveAll(path)
}

func openStore(dir, name string) (*bolt.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "vnode: create %s dir", name)
	}
	db, err := bolt.Open(filepath.Join(dir, name+".db"), 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "vnode: open %s store", name)
	}
	return db, nil
}

// Open loads the descriptor and opens the shard's stores in order: buffer
// pool, meta, tsdb, wal, tq. On any failure everything already opened is
// released.
func Open(path string) (*Vnode, error) {
	info, err := LoadInfo(path)
	if err != nil {
		log.WithField("path", path).WithError(err).Error("failed to open vnode")
		return nil, err
	}

	v := &Vnode{path: path, config: info.Config, state: info.State}
	vgLog := log.WithField("vgId", v.config.VgID)

	v.pool = newBufPool(v.config.BufPoolBytes)

	if v.meta, err = openStore(filepath.Join(path, metaDir), "meta"); err != nil {
		vgLog.WithError(err).Error("failed to open vnode meta")
		v.closePartial()
		return nil, err
	}
	if v.tsdb, err = openStore(filepath.Join(path, tsdbDir), "tsdb"); err != nil {
		vgLog.WithError(err).Error("failed to open vnode tsdb")
		v.closePartial()
		return nil, err
	}
	if v.wal, err = openStore(filepath.Join(path, walDir), "wal"); err != nil {
		vgLog.WithError(err).Error("failed to open vnode wal")
		v.closePartial()
		return nil, err
	}
	if v.tq, err = openStore(filepath.Join(path, tqDir), "tq"); err != nil {
		vgLog.WithError(err).Error("failed to open vnode tq")
		v.closePartial()
		return nil, err
	}

	vgLog.Info("vnode is opened")
	return v, nil
}

func (v *Vnode) closePartial() {
	for _, db := range []*bolt.DB{v.tq, v.wal, v.tsdb, v.meta} {
		if db != nil {
			_ = db.Close()
		}
	}
	v.pool = nil
}

// Close releases the stores in reverse open order.
func (v *Vnode) Close() error {
	if v == nil {
		return nil
	}
	var firstErr error
	for _, db := range []*bolt.DB{v.tq, v.wal, v.tsdb, v.meta} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	v.pool = nil
	log.WithField("vgId", v.config.VgID).Info("vnode is closed")
	return firstErr
}

// bufPool is the write buffer the stores share. Only its capacity is
// tracked; nothing allocates from it or drains it.
type bufPool struct {
	capacity int64
}

func newBufPool(capacity int64) *bufPool {
	if capacity <= 0 {
		capacity = DefaultConfig.BufPoolBytes
	}
	return &bufPool{capacity: capacity}
}
