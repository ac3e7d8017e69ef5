// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/runviz/runfmt"
)

// SplitQueryWords splits q into words using shell syntax (whitespace
// can be escaped with double quotes or with a backslash). An
// unterminated quote or escape is reported as a *runfmt.QueryError
// positioned at the end of q.
func SplitQueryWords(q string) ([]string, error) {
	words, err := shellquote.Split(q)
	if err != nil {
		return nil, runfmt.NewQueryError(q, len(q), err.Error())
	}
	return words, nil
}

// A Term is one condition of a run query: the label Name compared to
// Value with Op, which is one of ":", "<", or ">".
type Term struct {
	Name, Op, Value string
}

// ParseQuery splits q into words and parses each as a Term. Every
// word must have the form "name:value", "name<value", or
// "name>value".
func ParseQuery(q string) ([]Term, error) {
	words, err := SplitQueryWords(q)
	if err != nil {
		return nil, err
	}
	terms := make([]Term, 0, len(words))
	for _, w := range words {
		i := strings.IndexAny(w, ":<>")
		if i <= 0 {
			off := strings.Index(q, w)
			if off < 0 {
				off = 0
			}
			return nil, runfmt.NewQueryError(q, off, fmt.Sprintf("missing operator in query term %q", w))
		}
		terms = append(terms, Term{Name: w[:i], Op: w[i : i+1], Value: w[i+1:]})
	}
	return terms, nil
}

// Query is the result of a query.
// Use Next to advance through the rows, making sure to call Close when done:
//
//	q := db.Query(ctx, "key:value")
//	defer q.Close()
//	for q.Next() {
//		run := q.Run()
//		...
//	}
//	err = q.Err() // get any error encountered during iteration
//	...
type Query struct {
	rows *sql.Rows
	// from last call to Next
	run *runfmt.Run
	err error
}

// Query searches for runs matching q. The result is in insertion
// order.
func (db *DB) Query(ctx context.Context, q string) *Query {
	terms, err := ParseQuery(q)
	if err != nil {
		return &Query{err: err}
	}
	var where []string
	var args []interface{}
	for _, t := range terms {
		op := "="
		if t.Op != ":" {
			op = t.Op
		}
		where = append(where, "Seq IN (SELECT Seq FROM RunLabels WHERE Name = ? AND Value "+op+" ?)")
		args = append(args, t.Name, t.Value)
	}
	query := "SELECT Content FROM Runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY Seq"

	rows, err := db.sql.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return &Query{err: err}
	}
	return &Query{rows: rows}
}

// Next prepares the next result for reading with the Run method. It
// returns false when there are no more results, either by reaching
// the end of the input or an error.
func (q *Query) Next() bool {
	if q.err != nil || q.rows == nil {
		return false
	}
	if !q.rows.Next() {
		q.err = q.rows.Err()
		return false
	}
	var content []byte
	if q.err = q.rows.Scan(&content); q.err != nil {
		return false
	}
	r := runfmt.NewReader(bytes.NewReader(content), "db")
	if !r.Scan() {
		q.err = fmt.Errorf("stored run is empty")
		if err := r.Err(); err != nil {
			q.err = err
		}
		return false
	}
	switch rec := r.Result().(type) {
	case *runfmt.Run:
		q.run = rec
	case *runfmt.SyntaxError:
		q.err = rec
		return false
	}
	return true
}

// Run returns the most recent run generated by a call to Next.
func (q *Query) Run() *runfmt.Run {
	return q.run
}

// Err returns the error state of the query.
func (q *Query) Err() error {
	if q.err == sql.ErrNoRows {
		return nil
	}
	return q.err
}

// Close frees resources associated with the query.
func (q *Query) Close() error {
	if q.rows != nil {
		return q.rows.Close()
	}
	return q.Err()
}

// Runs returns all runs matching q.
func (db *DB) Runs(ctx context.Context, q string) ([]*runfmt.Run, error) {
	query := db.Query(ctx, q)
	defer query.Close()
	var runs []*runfmt.Run
	for query.Next() {
		runs = append(runs, query.Run())
	}
	return runs, query.Err()
}
