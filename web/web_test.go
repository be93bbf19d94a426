package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jnb666/reber/nnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	nnet.DataDir = t.TempDir()
	conf, err := NewConfig("webtest")
	require.NoError(t, err)
	conf.Grammar = "reber"
	conf.TrainSamples, conf.ValidSamples, conf.TestSamples = 200, 50, 0
	conf.TrainBatch, conf.TestBatch = 20, 50
	conf.MaxEpoch = 2
	return conf
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPages(t *testing.T) {
	h, net, err := NewRouter(testConfig(t), Options{Rows: 10})
	require.NoError(t, err)
	assert.True(t, nnet.FileExists("webtest_train.dat"))
	assert.Len(t, net.Labels["train"], 200)

	w := get(t, h, "/")
	assert.Equal(t, http.StatusFound, w.Code)

	w = get(t, h, "/samples/train/1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "page 1 of 20")
	assert.Contains(t, body, "accept")
	assert.Contains(t, body, "<svg")

	w = get(t, h, "/samples/nope/1")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, h, "/samples/train/opt/next")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/samples/train/2", w.Header().Get("Location"))

	w = get(t, h, "/train/stats")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, h, "/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "valid error")

	w = get(t, h, "/config")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MaxEpoch")

	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reber_generated_strings_total")
}

func TestConfigSave(t *testing.T) {
	conf := testConfig(t)
	h, _, err := NewRouter(conf, Options{})
	require.NoError(t, err)
	form := url.Values{}
	for _, key := range conf.Fields() {
		form.Set(key, fmt.Sprint(conf.Get(key)))
	}
	form.Set("MaxEpoch", "5")
	form.Set("Shuffle", "true")
	r := httptest.NewRequest("POST", "/config/save", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 5, conf.MaxEpoch)

	saved, err := nnet.LoadConfig("webtest.net")
	require.NoError(t, err)
	assert.Equal(t, 5, saved.MaxEpoch)

	w = get(t, h, "/config/reset")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, nnet.DefaultConfig().MaxEpoch, conf.MaxEpoch)
}

func TestTrain(t *testing.T) {
	conf := testConfig(t)
	net, err := NewNetwork(conf)
	require.NoError(t, err)
	net.Lock()
	require.NoError(t, net.Train(true))
	net.Unlock()
	assert.Eventually(t, func() bool {
		net.Lock()
		defer net.Unlock()
		return !net.running
	}, 10*time.Second, 10*time.Millisecond)
	stats := net.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, []string{"loss", "train error", "valid error", "valid avg"}, net.test.Headers)
	assert.Len(t, net.Pred["train"], 200)
}

func TestStaleRun(t *testing.T) {
	n := &Network{test: nnet.NewTestBase(), Pred: map[string][]int32{}}
	n.run, n.running, n.Epoch = 2, true, 5
	next, quit := n.nextEpoch(1, 3)
	assert.True(t, quit)
	assert.Equal(t, 4, next)
	assert.Equal(t, 5, n.Epoch)
	n.endRun(1)
	assert.True(t, n.running, "old run must not clear the flag")
	n.endRun(2)
	assert.False(t, n.running)
}

func TestAuth(t *testing.T) {
	h, _, err := NewRouter(testConfig(t), Options{User: "admin", Password: "secret"})
	require.NoError(t, err)
	w := get(t, h, "/config")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest("GET", "/config", nil)
	r.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	r = httptest.NewRequest("GET", "/config", nil)
	r.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
