package httpclient_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"prime-sync/core/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c, err := httpclient.New(httpclient.Options{})
		require.NoError(t, err)
		assert.Equal(t, httpclient.RequestTimeout, c.Timeout)

		tr := c.Transport.(*http.Transport)
		assert.Nil(t, tr.TLSClientConfig)
	})

	t.Run("ProxyWithoutVerify", func(t *testing.T) {
		c, err := httpclient.New(httpclient.Options{Proxy: "http://127.0.0.1:8888", VerifySSL: false})
		require.NoError(t, err)

		tr := c.Transport.(*http.Transport)
		require.NotNil(t, tr.TLSClientConfig)
		assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	})

	t.Run("ProxyWithVerify", func(t *testing.T) {
		c, err := httpclient.New(httpclient.Options{Proxy: "http://127.0.0.1:8888", VerifySSL: true})
		require.NoError(t, err)

		tr := c.Transport.(*http.Transport)
		assert.Nil(t, tr.TLSClientConfig)
	})

	t.Run("InvalidProxy", func(t *testing.T) {
		_, err := httpclient.New(httpclient.Options{Proxy: "://bad"})
		assert.Error(t, err)
	})
}

func TestRedirectLimit(t *testing.T) {
	hops := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, srv.URL+"/next", http.StatusFound)
	}))
	defer srv.Close()

	c, err := httpclient.New(httpclient.Options{})
	require.NoError(t, err)

	_, err = c.Get(srv.URL)
	assert.ErrorIs(t, err, httpclient.ErrTooManyRedirects)
	assert.Equal(t, httpclient.MaxRedirects+1, hops)
}
