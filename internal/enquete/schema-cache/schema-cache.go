// Package schemacache memoizes existence checks for the per-survey dynamic
// tables (responses, timings, tokens).
//
// Existence checks hit the database catalog and are issued on hot read paths
// (response counting, token lookups), so the result is cached per survey.
// The cache is passed around as an explicit dependency and must be
// invalidated whenever a survey table is created or dropped.
package schemacache

import "sync"

type TableKind int

const (
	ResponseTable TableKind = iota
	TimingsTable
	TokensTable
)

type TablesCache struct {
	m  map[string]map[TableKind]bool
	mu sync.Mutex
}

func NewTablesCache() *TablesCache {
	return &TablesCache{
		m: make(map[string]map[TableKind]bool),
	}
}

// Lookup returns the cached existence of a dynamic table. ok is false when
// nothing is cached and the caller has to ask the database.
func (c *TablesCache) Lookup(surveyID string, kind TableKind) (exists, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables, ok := c.m[surveyID]
	if !ok {
		return false, false
	}
	exists, ok = tables[kind]
	return exists, ok
}

func (c *TablesCache) Store(surveyID string, kind TableKind, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables, ok := c.m[surveyID]
	if !ok {
		tables = make(map[TableKind]bool)
		c.m[surveyID] = tables
	}
	tables[kind] = exists
}

// Invalidate drops every cached entry of a survey. Called on any schema
// change (table create or drop) touching the survey.
func (c *TablesCache) Invalidate(surveyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, surveyID)
}
