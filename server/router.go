// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

var (
	errUnknownBaseURL  = errors.New("unknown base url")
	errUnknownEndpoint = errors.New("unknown endpoint")
	errEndpointExists  = errors.New("endpoint already exists")
)

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	// base url -> endpoint -> handler
	routes map[string]map[string]http.Handler
}

func newRouter() *router {
	return &router{
		router: mux.NewRouter(),
		routes: make(map[string]map[string]http.Handler),
	}
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(w, req)
}

func (r *router) GetHandler(base, endpoint string) (http.Handler, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	endpoints, exists := r.routes[base]
	if !exists {
		return nil, fmt.Errorf("%w: %s", errUnknownBaseURL, base)
	}
	handler, exists := endpoints[endpoint]
	if !exists {
		return nil, fmt.Errorf("%w: %s%s", errUnknownEndpoint, base, endpoint)
	}
	return handler, nil
}

func (r *router) AddRouter(base, endpoint string, handler http.Handler) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	endpoints := r.routes[base]
	if endpoints == nil {
		endpoints = make(map[string]http.Handler)
	}
	url := base + endpoint
	if _, exists := endpoints[endpoint]; exists {
		return fmt.Errorf("%w: %s", errEndpointExists, url)
	}
	endpoints[endpoint] = handler
	r.routes[base] = endpoints

	// Routes are named by their URL so they can be looked up later.
	r.router.Handle(url, handler).Name(url)
	return nil
}
