package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testAgent = "websift-test"

func newTestPolicy() *Policy {
	return NewPolicy(http.DefaultClient, testAgent, zap.NewNop())
}

func TestCanFetchHonorsDisallow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\nAllow: /public/\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := newTestPolicy()
	assert.True(t, p.CanFetch(context.Background(), server.URL+"/public/page"))
	assert.False(t, p.CanFetch(context.Background(), server.URL+"/private/page"))
}

func TestCanFetchAgentSpecificGroup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: " + testAgent + "\nDisallow: /\n\nUser-agent: *\nAllow: /\n"))
	}))
	defer server.Close()

	p := newTestPolicy()
	assert.False(t, p.CanFetch(context.Background(), server.URL+"/anything"))
}

func TestFailOpenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := newTestPolicy()
	assert.True(t, p.CanFetch(context.Background(), server.URL+"/page"))
}

func TestFailOpenOnUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := newTestPolicy()
	assert.True(t, p.CanFetch(context.Background(), server.URL+"/page"))
}

func TestFailOpenOnUnparsableURL(t *testing.T) {
	p := newTestPolicy()
	assert.True(t, p.CanFetch(context.Background(), "::not a url::"))
}

func TestRobotsFetchedOncePerOrigin(t *testing.T) {
	robotsRequests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsRequests++
			w.Write([]byte("User-agent: *\nAllow: /\n"))
		}
	}))
	defer server.Close()

	p := newTestPolicy()
	assert.True(t, p.CanFetch(context.Background(), server.URL+"/a"))
	assert.True(t, p.CanFetch(context.Background(), server.URL+"/b"))
	assert.Equal(t, 1, robotsRequests)
}
