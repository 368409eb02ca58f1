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

package translate

import (
	"context"

	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/ast"
	"github.com/rippledb/ripple/sql/wire"
)

var log = logrus.WithField("component", "translator")

// ParseContext carries the parse-time parameters of one statement. It is
// owned by a single translation; nothing in it is shared.
type ParseContext struct {
	// Ctx cancels catalog lookups; the translator itself never polls it.
	Ctx context.Context

	AcctID    int32
	DB        string
	SQL       string
	RequestID uuid.UUID

	// TopicQuery disables vgroup-list population during table resolution
	// while translating a topic's subscribed query.
	TopicQuery bool

	// Daylight selects daylight-aware local time for timestamp literals.
	Daylight bool

	Catalog   sql.Catalog
	Transport sql.Transport
	MgmtEps   sql.EpSet

	// MsgBuf receives the formatted diagnostic of the first error, up to
	// its length.
	MsgBuf []byte
}

func (pc *ParseContext) ctx() context.Context {
	if pc.Ctx == nil {
		return context.Background()
	}
	return pc.Ctx
}

// clause labels the select clause currently being translated. The order of
// the constants is the order of evaluation; the aggregate legality and alias
// visibility checks compare against it.
type clause int8

const (
	clauseFrom clause = iota + 1
	clauseWhere
	clausePartitionBy
	clauseWindow
	clauseGroupBy
	clauseHaving
	clauseSelect
	clauseOrderBy
)

func beforeHaving(c clause) bool {
	return c < clauseHaving
}

// translateContext is the per-statement scratch state threaded through every
// pass. Single-threaded; no operation suspends.
type translateContext struct {
	pc  *ParseContext
	err error

	// nsLevels stacks one table namespace per subquery depth.
	nsLevels   [][]ast.TableRef
	currLevel  int
	currClause clause
	currStmt   *ast.SelectStmt

	cmdMsg *wire.CmdMsg

	dbs    map[string]struct{}
	tables map[string]sql.Name
}

func newTranslateContext(pc *ParseContext) *translateContext {
	return &translateContext{
		pc:     pc,
		dbs:    make(map[string]struct{}),
		tables: make(map[string]sql.Name),
	}
}

// fail latches the first error and returns it; later failures keep the
// original so error precedence follows clause order.
func (c *translateContext) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// failKind latches a formatted taxonomy error.
func (c *translateContext) failKind(kind *goerrors.Kind, args ...interface{}) error {
	return c.fail(kind.New(args...))
}

// visitErr latches an error from inside a walk visitor.
func (c *translateContext) visitErr(kind *goerrors.Kind, args ...interface{}) ast.VisitResult {
	c.failKind(kind, args...)
	return ast.VisitError
}

// addNamespace registers a table at the current level, growing the level
// stack as needed.
func (c *translateContext) addNamespace(t ast.TableRef) {
	for len(c.nsLevels) <= c.currLevel {
		c.nsLevels = append(c.nsLevels, nil)
	}
	c.nsLevels[c.currLevel] = append(c.nsLevels[c.currLevel], t)
}

func (c *translateContext) currTables() []ast.TableRef {
	if c.currLevel < len(c.nsLevels) {
		return c.nsLevels[c.currLevel]
	}
	return nil
}

func (c *translateContext) collectUseDatabase(fullDBName string) {
	c.dbs[fullDBName] = struct{}{}
}

func (c *translateContext) collectUseTable(name sql.Name) {
	c.tables[name.FullTableName()] = name
}

// The catalog wrappers mirror the lookup+bookkeeping pairing of the source:
// every lookup records the touched database and table for the finalizer's
// cache-invalidation lists, and failures are logged with their names.

func (c *translateContext) getTableMeta(name sql.Name) (*sql.TableMeta, error) {
	c.collectUseDatabase(name.FullDBName())
	c.collectUseTable(name)
	meta, err := c.pc.Catalog.TableMeta(c.pc.ctx(), c.pc.Transport, c.pc.MgmtEps, name)
	if err != nil {
		log.WithFields(logrus.Fields{
			"requestId": c.pc.RequestID,
			"dbName":    name.DB,
			"tbName":    name.Table,
		}).WithError(err).Error("catalog TableMeta failed")
	}
	return meta, err
}

func (c *translateContext) getTableDistVgInfo(name sql.Name) ([]sql.VgroupInfo, error) {
	c.collectUseDatabase(name.FullDBName())
	c.collectUseTable(name)
	vgs, err := c.pc.Catalog.TableDistVgInfo(c.pc.ctx(), c.pc.Transport, c.pc.MgmtEps, name)
	if err != nil {
		log.WithFields(logrus.Fields{
			"requestId": c.pc.RequestID,
			"dbName":    name.DB,
			"tbName":    name.Table,
		}).WithError(err).Error("catalog TableDistVgInfo failed")
	}
	return vgs, err
}

func (c *translateContext) getTableHashVgroup(name sql.Name) (sql.VgroupInfo, error) {
	c.collectUseDatabase(name.FullDBName())
	c.collectUseTable(name)
	vg, err := c.pc.Catalog.TableHashVgroup(c.pc.ctx(), c.pc.Transport, c.pc.MgmtEps, name)
	if err != nil {
		log.WithFields(logrus.Fields{
			"requestId": c.pc.RequestID,
			"dbName":    name.DB,
			"tbName":    name.Table,
		}).WithError(err).Error("catalog TableHashVgroup failed")
	}
	return vg, err
}

func (c *translateContext) getDBVgInfo(fullDBName string) ([]sql.VgroupInfo, error) {
	c.collectUseDatabase(fullDBName)
	vgs, err := c.pc.Catalog.DBVgInfo(c.pc.ctx(), c.pc.Transport, c.pc.MgmtEps, fullDBName)
	if err != nil {
		log.WithFields(logrus.Fields{
			"requestId": c.pc.RequestID,
			"dbFName":   fullDBName,
		}).WithError(err).Error("catalog DBVgInfo failed")
	}
	return vgs, err
}

func (c *translateContext) getDBVgVersion(fullDBName string) (int32, int64, int32, error) {
	c.collectUseDatabase(fullDBName)
	version, dbID, tableNum, err := c.pc.Catalog.DBVgVersion(fullDBName)
	if err != nil {
		log.WithFields(logrus.Fields{
			"requestId": c.pc.RequestID,
			"dbFName":   fullDBName,
		}).WithError(err).Error("catalog DBVgVersion failed")
	}
	return version, dbID, tableNum, err
}

// setCmdMsg serializes a request with the two-call convention and parks the
// envelope on the context for the finalizer to claim.
func (c *translateContext) setCmdMsg(msgType wire.MsgType, eps sql.EpSet, serialize func(buf []byte) int) error {
	n := serialize(nil)
	if n < 0 {
		return c.failKind(sql.ErrOutOfMemory)
	}
	buf := make([]byte, n)
	if serialize(buf) < 0 {
		return c.failKind(sql.ErrOutOfMemory)
	}
	c.cmdMsg = &wire.CmdMsg{MsgType: msgType, EpSet: eps, MsgLen: n, Msg: buf}
	return nil
}
