// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Runvizsave uploads run files to a run store server.
//
// Usage:
//
//	runvizsave [-v] [-header file] [-server url] [-noauth] file...
//
// Each input file should contain one JSON run record per line.
//
// Runvizsave will upload the input files to the specified server and
// print a URL where they can be viewed. Requests are authorized with
// the Google application default credentials unless -noauth is given.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/runviz/storage"
)

var (
	server  = flag.String("server", "http://localhost:8080", "upload runs to server at `url`")
	verbose = flag.Bool("v", false, "print verbose log messages")
	header  = flag.String("header", "", "insert `file` at the beginning of each uploaded file")
	noauth  = flag.Bool("noauth", false, "do not authorize requests")
)

// scope is the OAuth scope requested for uploads.
const scope = "https://www.googleapis.com/auth/userinfo.email"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage of runvizsave:
	runvizsave [flags] file...
`)
	flag.PrintDefaults()
	os.Exit(2)
}

// headerFile is a file with a header prepended.
type headerFile struct {
	io.Reader
	f *os.File
}

func (h *headerFile) Close() error {
	return h.f.Close()
}

// opener returns a function that opens files with headerData
// prepended.
func opener(headerData []byte) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		return &headerFile{io.MultiReader(bytes.NewReader(headerData), f), f}, nil
	}
}

func main() {
	log.SetPrefix("runvizsave: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("no files to upload")
	}

	var headerData []byte
	if *header != "" {
		var err error
		headerData, err = os.ReadFile(*header)
		if err != nil {
			log.Fatal(err)
		}
		headerData = append(bytes.TrimRight(headerData, "\n"), '\n')
	}

	ctx := context.Background()
	hc := http.DefaultClient
	if !*noauth {
		ts, err := google.DefaultTokenSource(ctx, scope)
		if err != nil {
			log.Fatalf("finding credentials: %v (use -noauth for servers without authentication)", err)
		}
		hc = oauth2.NewClient(ctx, ts)
	}
	client := &storage.Client{BaseURL: *server, HTTPClient: hc}

	start := time.Now()

	status, err := client.Upload(ctx, files, opener(headerData))
	if err != nil {
		log.Fatal(err)
	}

	if *verbose {
		s := ""
		if len(files) != 1 {
			s = "s"
		}
		log.Printf("%d file%s (%d runs) uploaded in %.2f seconds.\n", len(files), s, len(status.Hashes), time.Since(start).Seconds())
	}
	if status.ViewURL != "" {
		fmt.Printf("%s\n", status.ViewURL)
	}
}
