package api

import (
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// The echoprometheus middleware registers its collectors with the default
// registry, so the router can only be built once per test binary.
var (
	routesOnce sync.Once
	testRoutes map[string]bool
)

func routeSet() map[string]bool {
	routesOnce.Do(func() {
		e := NewRouter(Deps{Log: zerolog.Nop()})
		testRoutes = make(map[string]bool, len(e.Routes()))
		for _, r := range e.Routes() {
			testRoutes[r.Method+" "+r.Path] = true
		}
	})
	return testRoutes
}

func TestNewRouter_RegistersStaffCreate(t *testing.T) {
	if !routeSet()[http.MethodPost+" /api/v1/staff"] {
		t.Fatalf("POST /api/v1/staff not registered")
	}
}

func TestNewRouter_AuthRoutes(t *testing.T) {
	routes := routeSet()
	for _, want := range []string{
		http.MethodPost + " /api/v1/auth/login",
		http.MethodPost + " /api/v1/auth/register",
		http.MethodPut + " /api/v1/auth/change-password",
		http.MethodGet + " /api/v1/auth/profile",
	} {
		if !routes[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}
