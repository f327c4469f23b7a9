package application_test

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/cloudpanel/internal/application"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

func mockFactory(built *[]string) driven.HostingClientFactory {
	var mu sync.Mutex
	return func(cred model.Credential) driven.HostingClient {
		mu.Lock()
		*built = append(*built, cred.Token)
		mu.Unlock()
		return &mockHostingClient{token: cred.Token}
	}
}

func TestSessionStore_OpenBuildsClientFromCredential(t *testing.T) {
	var built []string
	store := application.NewSessionStore(mockFactory(&built), nil, 0)

	sess, err := store.Open(model.Credential{Token: "tok-a", Source: model.CredentialSourceManual})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "tok-a", sess.Credential.Token)
	assert.Equal(t, []string{"tok-a"}, built)

	hc, ok := sess.Hosting.(*mockHostingClient)
	require.True(t, ok)
	assert.Equal(t, "tok-a", hc.token)
}

func TestSessionStore_OpenRejectsEmptyCredential(t *testing.T) {
	var built []string
	store := application.NewSessionStore(mockFactory(&built), nil, 0)

	_, err := store.Open(model.Credential{})
	require.ErrorIs(t, err, application.ErrEmptyCredential)
	assert.Empty(t, built)
	assert.Zero(t, store.Len())
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	var built []string
	store := application.NewSessionStore(mockFactory(&built), nil, 0)

	a, err := store.Open(model.Credential{Token: "tok-a"})
	require.NoError(t, err)
	b, err := store.Open(model.Credential{Token: "tok-b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Same(t, a, store.Get(a.ID))
	assert.Same(t, b, store.Get(b.ID))
	assert.Equal(t, "tok-b", store.Get(b.ID).Credential.Token)
}

func TestSessionStore_GetUnknownReturnsNil(t *testing.T) {
	var built []string
	store := application.NewSessionStore(mockFactory(&built), nil, 0)

	assert.Nil(t, store.Get(""))
	assert.Nil(t, store.Get("missing"))
}

func TestSessionStore_CloseForgetsSession(t *testing.T) {
	var built []string
	reg := newMetrics()
	store := application.NewSessionStore(mockFactory(&built), reg, 0)

	sess, err := store.Open(model.Credential{Token: "tok"})
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(reg.ActiveSessions), 0)

	store.Close(sess.ID)
	assert.Nil(t, store.Get(sess.ID))
	assert.InDelta(t, 0, testutil.ToFloat64(reg.ActiveSessions), 0)

	store.Close(sess.ID)
	assert.Zero(t, store.Len())
}

func TestSessionStore_ConcurrentOpenGetClose(t *testing.T) {
	var built []string
	store := application.NewSessionStore(mockFactory(&built), nil, 0)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			sess, err := store.Open(model.Credential{Token: "tok"})
			if !assert.NoError(t, err) {
				return
			}
			assert.Same(t, sess, store.Get(sess.ID))
			store.Close(sess.ID)
		}()
	}

	wg.Wait()
	assert.Zero(t, store.Len())
	assert.Len(t, built, goroutines)
}
