// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !appengine

package app

import (
	"context"
	"log"
	"net/http"
)

// requestContext returns the Context object for a given HTTP request.
func requestContext(r *http.Request) context.Context {
	return r.Context()
}

// infof is called to log informational messages. On App Engine these
// go to the request log; elsewhere they go to the standard logger.
func infof(_ context.Context, format string, args ...interface{}) {
	log.Printf(format, args...)
}

// errorf is called to log error messages.
var errorf = infof
