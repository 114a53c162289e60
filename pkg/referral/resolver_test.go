package referral

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_TwoTiers(t *testing.T) {
	firstReferrer := types.NewAccount().PublicKey
	secondReferrer := types.NewAccount().PublicKey

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("code") {
		case "my-code":
			fmt.Fprintf(w, `{"success": true, "referrerWallet": %q}`, firstReferrer.ToBase58())
		case firstReferrer.ToBase58():
			fmt.Fprintf(w, `{"success": true, "referrerWallet": %q}`, secondReferrer.ToBase58())
		default:
			fmt.Fprint(w, `{"success": false}`)
		}
	}))
	defer server.Close()

	chain := NewResolver(NewClient(server.URL + "/")).Resolve(context.Background(), "my-code")

	require.NotNil(t, chain.First)
	require.NotNil(t, chain.Second)
	assert.Equal(t, firstReferrer, *chain.First)
	assert.Equal(t, secondReferrer, *chain.Second)
}

func TestResolve_SecondTierDegrades(t *testing.T) {
	firstReferrer := types.NewAccount().PublicKey

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") == "my-code" {
			fmt.Fprintf(w, `{"success": true, "referrerWallet": %q}`, firstReferrer.ToBase58())
			return
		}
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer server.Close()

	chain := NewResolver(NewClient(server.URL + "/")).Resolve(context.Background(), "my-code")

	require.NotNil(t, chain.First)
	assert.Equal(t, firstReferrer, *chain.First)
	assert.Nil(t, chain.Second)
}

func TestResolve_FirstTierDegrades(t *testing.T) {
	var requests int32

	for name, handler := range map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			fmt.Fprint(w, `{"success": false}`)
		},
		"server error": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			fmt.Fprint(w, `{"success":`)
		},
		"invalid wallet": func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			fmt.Fprint(w, `{"success": true, "referrerWallet": "tooshort"}`)
		},
	} {
		requests = 0
		server := httptest.NewServer(handler)

		chain := NewResolver(NewClient(server.URL + "/")).Resolve(context.Background(), "my-code")

		assert.Nil(t, chain.First, name)
		assert.Nil(t, chain.Second, name)

		// A first tier failure must skip the second lookup entirely.
		assert.EqualValues(t, 1, atomic.LoadInt32(&requests), name)

		server.Close()
	}
}

func TestResolve_EmptyCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no lookup expected for an empty code")
	}))
	defer server.Close()

	chain := NewResolver(NewClient(server.URL + "/")).Resolve(context.Background(), "")
	assert.Nil(t, chain.First)
	assert.Nil(t, chain.Second)
}

func TestResolve_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation degrades the chain, it never aborts the build.
	chain := NewResolver(NewClient(server.URL + "/")).Resolve(ctx, "my-code")
	assert.Nil(t, chain.First)
	assert.Nil(t, chain.Second)
}
