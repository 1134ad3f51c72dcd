package dispatch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"prime-sync/core/entity"
	"prime-sync/core/syncerr"
	"prime-sync/feature/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func ptr[T any](v T) *T { return &v }

func shipsEnvelope(t *testing.T, firstSync bool) entity.Envelope {
	t.Helper()
	env, err := entity.NewEnvelope(entity.Ships, []entity.Record{
		entity.NewRecord(entity.Ships, entity.Fields{"psid": 1, "level": 2}),
	}, firstSync)
	require.NoError(t, err)
	return env
}

type recordingSender struct {
	mu    sync.Mutex
	sent  map[string][]entity.Envelope
	delay time.Duration
	panic atomic.Bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(map[string][]entity.Envelope)}
}

func (s *recordingSender) Send(ctx context.Context, t dispatch.Target, env entity.Envelope) error {
	if s.panic.CompareAndSwap(true, false) {
		panic("sender exploded")
	}
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[t.Name] = append(s.sent[t.Name], env)
	return nil
}

func (s *recordingSender) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent[name])
}

func TestNewTargets(t *testing.T) {
	t.Run("SortedAndParsed", func(t *testing.T) {
		targets, err := dispatch.NewTargets(map[string]dispatch.TargetConfig{
			"zeta":  {URL: "http://z", Types: []string{"ships"}},
			"alpha": {URL: "http://a", Token: "tok", Types: []string{"Officer", "BATTLES"}},
		})
		require.NoError(t, err)
		require.Len(t, targets, 2)

		assert.Equal(t, "alpha", targets[0].Name)
		assert.Equal(t, "tok", targets[0].Token)
		assert.True(t, targets[0].Accepts(entity.Officer))
		assert.True(t, targets[0].Accepts(entity.Battles))
		assert.False(t, targets[0].Accepts(entity.Ships))
		assert.True(t, targets[1].Accepts(entity.Ships))
		assert.NotNil(t, targets[1].Client)
	})

	t.Run("VerifySSLOff", func(t *testing.T) {
		targets, err := dispatch.NewTargets(map[string]dispatch.TargetConfig{
			"p": {URL: "http://p", Proxy: "http://127.0.0.1:3128", VerifySSL: ptr(false)},
		})
		require.NoError(t, err)
		tr := targets[0].Client.Transport.(*http.Transport)
		assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	})

	tests := []struct {
		name string
		cfg  dispatch.TargetConfig
	}{
		{"MissingURL", dispatch.TargetConfig{Types: []string{"ships"}}},
		{"UnknownType", dispatch.TargetConfig{URL: "http://x", Types: []string{"starships"}}},
		{"BadProxy", dispatch.TargetConfig{URL: "http://x", Proxy: "://nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dispatch.NewTargets(map[string]dispatch.TargetConfig{"bad": tt.cfg})
			assert.True(t, syncerr.Is(err, syncerr.ConfigurationGap))
		})
	}
}

func TestFanOutToSubscribedTargets(t *testing.T) {
	var hits [3]atomic.Int32
	servers := make([]*httptest.Server, 3)
	for i := range servers {
		i := i
		servers[i] = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits[i].Add(1)
		}))
		defer servers[i].Close()
	}

	targets, err := dispatch.NewTargets(map[string]dispatch.TargetConfig{
		"a": {URL: servers[0].URL, Types: []string{"Ships"}},
		"b": {URL: servers[1].URL, Types: []string{"Officer"}},
		"c": {URL: servers[2].URL, Types: []string{"Ships", "Officer"}},
	})
	require.NoError(t, err)

	q := dispatch.NewSyncQueue(nil)
	pool := dispatch.NewPool(dispatch.NewUploader("agent", false, zap.NewNop(), nil), zap.NewNop(), nil)
	d := dispatch.NewDispatcher(q, targets, pool, zap.NewNop())
	d.Start()

	require.NoError(t, q.Enqueue(shipsEnvelope(t, false)))
	q.Close()
	<-d.Done()
	pool.Stop()

	assert.Equal(t, int32(1), hits[0].Load())
	assert.Equal(t, int32(0), hits[1].Load())
	assert.Equal(t, int32(1), hits[2].Load())
	assert.Equal(t, 2, pool.Workers(), "workers are created lazily")
}

func TestTargetsReceiveQueueOrder(t *testing.T) {
	targets := []dispatch.Target{
		{Name: "a", Types: entity.NewSet(entity.Ships)},
		{Name: "b", Types: entity.NewSet(entity.Ships)},
	}
	sender := newRecordingSender()
	q := dispatch.NewSyncQueue(nil)
	pool := dispatch.NewPool(sender, zap.NewNop(), nil)
	d := dispatch.NewDispatcher(q, targets, pool, zap.NewNop())

	var want [][]byte
	for i := 0; i < 20; i++ {
		env, err := entity.NewEnvelope(entity.Ships, []entity.Record{
			entity.NewRecord(entity.Ships, entity.Fields{"psid": i}),
		}, false)
		require.NoError(t, err)
		require.NoError(t, q.Enqueue(env))
		want = append(want, env.Body)
	}
	d.Start()
	q.Close()
	<-d.Done()
	pool.Stop()

	for _, name := range []string{"a", "b"} {
		sender.mu.Lock()
		var got [][]byte
		for _, env := range sender.sent[name] {
			got = append(got, env.Body)
		}
		sender.mu.Unlock()
		assert.Equal(t, want, got, name)
	}
}

func TestNoTargetsWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	q := dispatch.NewSyncQueue(nil)
	pool := dispatch.NewPool(newRecordingSender(), zap.NewNop(), nil)
	d := dispatch.NewDispatcher(q, nil, pool, zap.New(core))
	d.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(shipsEnvelope(t, false)))
	}
	q.Close()
	<-d.Done()
	pool.Stop()

	assert.Equal(t, 1, logs.FilterMessage("No sync targets configured, dropping sync data").Len())
	assert.Equal(t, 0, pool.Workers())
}

func TestEnqueueAfterClose(t *testing.T) {
	q := dispatch.NewSyncQueue(nil)
	q.Close()
	assert.Error(t, q.Enqueue(shipsEnvelope(t, false)))
}

func TestPoolStopDrains(t *testing.T) {
	sender := newRecordingSender()
	sender.delay = 5 * time.Millisecond
	pool := dispatch.NewPool(sender, zap.NewNop(), nil)
	target := dispatch.Target{Name: "slow", Types: entity.NewSet(entity.Ships)}

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Enqueue(target, shipsEnvelope(t, false)))
	}
	pool.Stop()

	assert.Equal(t, 5, sender.count("slow"))
	assert.ErrorIs(t, pool.Enqueue(target, shipsEnvelope(t, false)), dispatch.ErrPoolStopped)
}

func TestPoolRecoversFromPanic(t *testing.T) {
	sender := newRecordingSender()
	sender.panic.Store(true)
	pool := dispatch.NewPool(sender, zap.NewNop(), nil)
	target := dispatch.Target{Name: "t"}

	require.NoError(t, pool.Enqueue(target, shipsEnvelope(t, false)))
	require.NoError(t, pool.Enqueue(target, shipsEnvelope(t, false)))
	pool.Stop()

	assert.Equal(t, 1, sender.count("t"))
}

func TestUploaderHeaders(t *testing.T) {
	tests := []struct {
		name      string
		firstSync bool
		wantPrime string
	}{
		{"FirstSync", true, "2"},
		{"Regular", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got http.Header
			var body []byte
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				body, _ = io.ReadAll(r.Body)
			}))
			defer srv.Close()

			target := dispatch.Target{Name: "t", URL: srv.URL, Token: "secret", Client: srv.Client()}
			u := dispatch.NewUploader("prime-sync 1.0", true, zap.NewNop(), nil)

			env := shipsEnvelope(t, tt.firstSync)
			require.NoError(t, u.Send(context.Background(), target, env))

			assert.Equal(t, "application/json", got.Get("Content-Type"))
			assert.Equal(t, "prime-sync 1.0", got.Get("X-Powered-By"))
			assert.Equal(t, "secret", got.Get(dispatch.HeaderToken))
			assert.Equal(t, tt.wantPrime, got.Get(dispatch.HeaderPrimeSync))
			assert.JSONEq(t, string(env.Body), string(body))
		})
	}
}

func TestUploaderFailures(t *testing.T) {
	t.Run("Rejected", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		target := dispatch.Target{Name: "t", URL: srv.URL, Client: srv.Client()}
		err := dispatch.NewUploader("a", false, zap.New(core), nil).Send(context.Background(), target, shipsEnvelope(t, false))

		assert.True(t, syncerr.Is(err, syncerr.RemoteRejection))
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "Failed to communicate with server: 401 Unauthorized")
	})

	t.Run("Transport", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		target := dispatch.Target{Name: "t", URL: url, Client: http.DefaultClient}
		err := dispatch.NewUploader("a", false, zap.NewNop(), nil).Send(context.Background(), target, shipsEnvelope(t, false))
		assert.True(t, syncerr.Is(err, syncerr.TransportFailure))
	})
}
