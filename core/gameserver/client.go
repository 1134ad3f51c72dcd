package gameserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"prime-sync/core/logger"
	"prime-sync/core/syncerr"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	PathJournal   = "/journals/get"
	PathProfiles  = "/user_profile/profiles"
	PathAlliances = "/alliance/get_alliances_public_info"
)

// Session identifies the running game client towards the game server.
type Session struct {
	ServerURL    string `json:"server_url" mapstructure:"server_url" yaml:"server_url" default:""`
	SessionID    string `json:"session_id" mapstructure:"session_id" yaml:"session_id" default:""`
	InstanceID   int    `json:"instance_id" mapstructure:"instance_id" yaml:"instance_id" default:"0"`
	PrimeVersion string `json:"prime_version" mapstructure:"prime_version" yaml:"prime_version" default:""`
	UnityVersion string `json:"unity_version" mapstructure:"unity_version" yaml:"unity_version" default:""`
}

// Ready reports whether enough of the session is known to issue calls.
func (s Session) Ready() bool {
	return s.ServerURL != "" && s.SessionID != ""
}

// Profile is one player as returned by the profiles endpoint.
type Profile struct {
	Name       string
	AllianceID int64
}

// Alliance is one alliance as returned by the public info endpoint.
type Alliance struct {
	Name string
	Tag  string
}

// Client issues game server calls with the current session headers.
type Client struct {
	http   *http.Client
	agent  string
	logger *zap.Logger
	debug  bool

	mu      sync.RWMutex
	session Session
}

// NewClient creates a client. agent is sent as X-Powered-By.
func NewClient(httpClient *http.Client, agent string, session Session, logger *zap.Logger, debug bool) *Client {
	return &Client{
		http:    httpClient,
		agent:   agent,
		logger:  logger,
		debug:   debug,
		session: session,
	}
}

// SetSession replaces the session used by subsequent calls. Zero fields of s
// keep their current value.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.ServerURL != "" {
		c.session.ServerURL = strings.TrimRight(s.ServerURL, "/")
	}
	if s.SessionID != "" {
		c.session.SessionID = s.SessionID
	}
	if s.InstanceID != 0 {
		c.session.InstanceID = s.InstanceID
	}
	if s.PrimeVersion != "" {
		c.session.PrimeVersion = s.PrimeVersion
	}
	if s.UnityVersion != "" {
		c.session.UnityVersion = s.UnityVersion
	}
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Post sends body as JSON to path and returns the response body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	session := c.Session()
	if !session.Ready() {
		return nil, syncerr.New(syncerr.ConfigurationGap, path, fmt.Errorf("game server session not set"))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.ServerURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, syncerr.New(syncerr.ConfigurationGap, path, err)
	}

	req.Header.Set("X-Transaction-ID", uuid.NewString())
	req.Header.Set("X-Auth-Session-ID", session.SessionID)
	req.Header.Set("X-Prime-Version", session.PrimeVersion)
	req.Header.Set("X-Instance-ID", fmt.Sprintf("%03d", session.InstanceID))
	req.Header.Set("X-Prime-Sync", "0")
	req.Header.Set("X-Unity-Version", session.UnityVersion)
	req.Header.Set("X-Powered-By", c.agent)
	req.Header.Set("User-Agent", c.agent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, syncerr.New(syncerr.TransportFailure, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, syncerr.New(syncerr.TransportFailure, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, syncerr.Rejected(path, resp.StatusCode, resp.Status)
	}

	if c.debug {
		c.logger.Debug("Game server response",
			logger.Flow(logger.Download),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("bytes", len(data)),
		)
	}

	return data, nil
}

// Journal fetches one battle journal and returns its "journal" object.
func (c *Client) Journal(ctx context.Context, id uint64) ([]byte, error) {
	data, err := c.Post(ctx, PathJournal, map[string]uint64{"journal_id": id})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, syncerr.New(syncerr.DecodeFailure, PathJournal, fmt.Errorf("response is not valid JSON"))
	}

	journal := gjson.GetBytes(data, "journal")
	if !journal.IsObject() {
		return nil, syncerr.New(syncerr.DecodeFailure, PathJournal, fmt.Errorf("response has no journal object"))
	}
	return []byte(journal.Raw), nil
}

// Profiles fetches player profiles in one batch.
func (c *Client) Profiles(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	data, err := c.Post(ctx, PathProfiles, map[string][]string{"user_ids": userIDs})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, syncerr.New(syncerr.DecodeFailure, PathProfiles, fmt.Errorf("response is not valid JSON"))
	}

	out := make(map[string]Profile)
	gjson.GetBytes(data, "user_profiles").ForEach(func(key, value gjson.Result) bool {
		name := value.Get("name")
		if name.Type != gjson.String {
			return true
		}
		out[key.String()] = Profile{
			Name:       name.String(),
			AllianceID: value.Get("alliance_id").Int(),
		}
		return true
	})
	return out, nil
}

// Alliances fetches alliance name and tag in one batch.
func (c *Client) Alliances(ctx context.Context, allianceIDs []int64) (map[int64]Alliance, error) {
	body := struct {
		UserCurrentRank int     `json:"user_current_rank"`
		AllianceID      int64   `json:"alliance_id"`
		AllianceIDs     []int64 `json:"alliance_ids"`
	}{AllianceIDs: allianceIDs}

	data, err := c.Post(ctx, PathAlliances, body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, syncerr.New(syncerr.DecodeFailure, PathAlliances, fmt.Errorf("response is not valid JSON"))
	}

	out := make(map[int64]Alliance)
	gjson.GetBytes(data, "alliances_info").ForEach(func(key, value gjson.Result) bool {
		id := value.Get("id").Int()
		if id == 0 {
			id, _ = strconv.ParseInt(key.String(), 10, 64)
		}
		if id == 0 {
			return true
		}
		out[id] = Alliance{
			Name: value.Get("name").String(),
			Tag:  value.Get("tag").String(),
		}
		return true
	})
	return out, nil
}
