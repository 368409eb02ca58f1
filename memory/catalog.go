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

// Package memory provides an in-memory catalog for tests and examples. It
// serves table descriptors and vgroup topology from maps and routes table
// names to vgroups with the engine's murmur3 hash.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"

	"github.com/rippledb/ripple/sql"
	"github.com/rippledb/ripple/sql/information_schema"
)

// Database is one database's catalog state.
type Database struct {
	Name       string
	ID         int64
	VgVersion  int32
	Precision  sql.Precision
	Vgroups    []sql.VgroupInfo
	tables     map[string]*sql.TableMeta
	tableCount int32
}

// Catalog is an in-memory sql.Catalog. Safe for concurrent readers and
// writers.
type Catalog struct {
	mu      sync.RWMutex
	acctID  int32
	dbs     map[string]*Database
	nextUID uint64
}

var _ sql.Catalog = (*Catalog)(nil)

// NewCatalog returns an empty catalog for one account.
func NewCatalog(acctID int32) *Catalog {
	c := &Catalog{
		acctID:  acctID,
		dbs:     make(map[string]*Database),
		nextUID: 1000,
	}
	c.addInformationSchema()
	return c
}

func (c *Catalog) addInformationSchema() {
	db := c.addDatabaseLocked(information_schema.DBName, 0)
	for _, table := range information_schema.Tables() {
		schema, _ := information_schema.TableSchema(table)
		db.tables[table] = &sql.TableMeta{
			UID:       c.nextUID,
			TableType: sql.SystemTable,
			Columns:   schema,
		}
		c.nextUID++
	}
}

func (c *Catalog) addDatabaseLocked(name string, numVgroups int) *Database {
	db := &Database{
		Name:      name,
		ID:        int64(len(c.dbs) + 1),
		VgVersion: 1,
		tables:    make(map[string]*sql.TableMeta),
	}
	slot := uint32(0)
	step := uint32(0)
	if numVgroups > 0 {
		step = ^uint32(0) / uint32(numVgroups)
	}
	for i := 0; i < numVgroups; i++ {
		end := slot + step
		if i == numVgroups-1 {
			end = ^uint32(0)
		}
		db.Vgroups = append(db.Vgroups, sql.VgroupInfo{
			VgID:      int32(i + 1),
			HashBegin: slot,
			HashEnd:   end,
			EpSet: sql.EpSet{Eps: []sql.Endpoint{
				{FQDN: "localhost", Port: uint16(7100 + i)},
			}},
		})
		slot = end + 1
	}
	c.dbs[name] = db
	return db
}

// AddDatabase registers a database with the given number of vgroups.
func (c *Catalog) AddDatabase(name string, numVgroups int) *Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addDatabaseLocked(name, numVgroups)
}

// AddNormalTable registers a normal table.
func (c *Catalog) AddNormalTable(dbName, tableName string, columns sql.Schema) error {
	return c.addTable(dbName, tableName, &sql.TableMeta{
		TableType: sql.NormalTable,
		Columns:   columns,
	})
}

// AddSuperTable registers a super table with its tag schema.
func (c *Catalog) AddSuperTable(dbName, tableName string, columns, tags sql.Schema) error {
	return c.addTable(dbName, tableName, &sql.TableMeta{
		TableType: sql.SuperTable,
		Columns:   columns,
		Tags:      tags,
	})
}

// AddChildTable registers a child table instantiated from a super table.
func (c *Catalog) AddChildTable(dbName, superName, tableName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	db, ok := c.dbs[dbName]
	if !ok {
		return errors.Errorf("memory: database %q not found", dbName)
	}
	super, ok := db.tables[superName]
	if !ok {
		return errors.Errorf("memory: super table %q not found", superName)
	}
	meta := &sql.TableMeta{
		UID:       c.nextUID,
		SUID:      super.UID,
		TableType: sql.ChildTable,
		Precision: db.Precision,
		Columns:   super.Columns,
		Tags:      super.Tags,
	}
	c.nextUID++
	db.tables[tableName] = meta
	db.tableCount++
	db.VgVersion++
	return nil
}

func (c *Catalog) addTable(dbName, tableName string, meta *sql.TableMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	db, ok := c.dbs[dbName]
	if !ok {
		return errors.Errorf("memory: database %q not found", dbName)
	}
	meta.UID = c.nextUID
	meta.Precision = db.Precision
	c.nextUID++
	db.tables[tableName] = meta
	db.tableCount++
	db.VgVersion++
	return nil
}

func (c *Catalog) database(name string) (*Database, error) {
	db, ok := c.dbs[name]
	if !ok {
		return nil, errors.Errorf("memory: database %q not found", name)
	}
	return db, nil
}

// hashVgroup routes a table name over a database's vgroups by hash range.
func hashVgroup(db *Database, tableName string) (sql.VgroupInfo, error) {
	if len(db.Vgroups) == 0 {
		return sql.VgroupInfo{}, errors.Errorf("memory: database %q has no vgroups", db.Name)
	}
	h := murmur3.Sum32([]byte(tableName))
	for _, vg := range db.Vgroups {
		if h >= vg.HashBegin && h <= vg.HashEnd {
			return vg, nil
		}
	}
	return db.Vgroups[len(db.Vgroups)-1], nil
}

// TableMeta implements sql.Catalog.
func (c *Catalog) TableMeta(_ context.Context, _ sql.Transport, _ sql.EpSet, name sql.Name) (*sql.TableMeta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, err := c.database(name.DB)
	if err != nil {
		return nil, err
	}
	meta, ok := db.tables[name.Table]
	if !ok {
		return nil, errors.Errorf("memory: table %q not found in %q", name.Table, name.DB)
	}
	return meta, nil
}

// TableDistVgInfo implements sql.Catalog. Data of a super table may live in
// every vgroup of its database.
func (c *Catalog) TableDistVgInfo(_ context.Context, _ sql.Transport, _ sql.EpSet, name sql.Name) ([]sql.VgroupInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, err := c.database(name.DB)
	if err != nil {
		return nil, err
	}
	if _, ok := db.tables[name.Table]; !ok {
		return nil, errors.Errorf("memory: table %q not found in %q", name.Table, name.DB)
	}
	return append([]sql.VgroupInfo(nil), db.Vgroups...), nil
}

// TableHashVgroup implements sql.Catalog.
func (c *Catalog) TableHashVgroup(_ context.Context, _ sql.Transport, _ sql.EpSet, name sql.Name) (sql.VgroupInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, err := c.database(name.DB)
	if err != nil {
		return sql.VgroupInfo{}, err
	}
	return hashVgroup(db, name.Table)
}

// DBVgInfo implements sql.Catalog. The qualified name's database part is the
// segment after the account id.
func (c *Catalog) DBVgInfo(_ context.Context, _ sql.Transport, _ sql.EpSet, fullDBName string) ([]sql.VgroupInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, err := c.database(dbNameOf(fullDBName))
	if err != nil {
		return nil, err
	}
	return append([]sql.VgroupInfo(nil), db.Vgroups...), nil
}

// DBVgVersion implements sql.Catalog.
func (c *Catalog) DBVgVersion(fullDBName string) (int32, int64, int32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, err := c.database(dbNameOf(fullDBName))
	if err != nil {
		return 0, 0, 0, err
	}
	return db.VgVersion, db.ID, db.tableCount, nil
}

func dbNameOf(fullDBName string) string {
	for i := 0; i < len(fullDBName); i++ {
		if '.' == fullDBName[i] {
			return fullDBName[i+1:]
		}
	}
	return fullDBName
}
