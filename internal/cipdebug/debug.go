// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cipdebug exposes a Client's join state over a small read-only
// HTTP API, for attaching a browser or curl to a running cipctl monitor
// session during development.
package cipdebug

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"go.cresnet.dev/cip"
)

// Server wraps an httprouter.Router serving a single Client's state.
type Server struct {
	router *httprouter.Router
}

// NewServer builds a debug Server for client. GET /joins returns every
// known join as JSON; GET /healthz reports whether the session has
// completed its handshake with the control processor.
func NewServer(client *cip.Client) *Server {
	r := httprouter.New()
	r.GET("/joins", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(client.Snapshot())
	})
	r.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		if !client.Connected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not connected\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
	return &Server{router: r}
}

// ListenAndServe blocks serving the debug API on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}
