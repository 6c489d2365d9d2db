package lib

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/TecharoHQ/sphinx"
	"github.com/TecharoHQ/sphinx/internal"
	"github.com/TecharoHQ/sphinx/lib/assets"
	"github.com/TecharoHQ/sphinx/lib/challenge"
	"github.com/TecharoHQ/sphinx/lib/challenge/challengetest"
	"github.com/TecharoHQ/sphinx/lib/config"
	"github.com/TecharoHQ/sphinx/lib/store"
	"github.com/TecharoHQ/sphinx/lib/store/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type recordingStore struct {
	store.Interface
	mu      sync.Mutex
	expiry  map[string]time.Duration
	deletes int
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte, expiry time.Duration) error {
	r.mu.Lock()
	r.expiry[key] = expiry
	r.mu.Unlock()
	return r.Interface.Set(ctx, key, value, expiry)
}

func (r *recordingStore) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	r.deletes++
	r.mu.Unlock()
	return r.Interface.Delete(ctx, key)
}

func spawnSphinx(t *testing.T) (*Sphinx, *recordingStore) {
	t.Helper()

	st := &recordingStore{
		Interface: memory.New(t.Context()),
		expiry:    map[string]time.Duration{},
	}

	s, err := New(Options{Store: st})
	if err != nil {
		t.Fatalf("can't construct sphinx: %v", err)
	}

	return s, st
}

func decodeDataURI(t *testing.T, uri string) (width, height int) {
	t.Helper()

	if !strings.HasPrefix(uri, sphinx.DataURIPrefix) {
		t.Fatalf("wrong data URI prefix: %q", uri[:min(len(uri), 30)])
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, sphinx.DataURIPrefix))
	if err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestCreate(t *testing.T) {
	s, st := spawnSphinx(t)
	id := challengetest.SessionID(t)

	uri, err := s.Create(t.Context(), id, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	if w, h := decodeDataURI(t, uri); w != 180 || h != 62 {
		t.Errorf("want 180x62, got %dx%d", w, h)
	}

	key := sphinx.KeyPrefix + internal.MD5sum(id)

	raw, err := st.Get(t.Context(), key)
	if err != nil {
		t.Fatalf("commitment not stored under %s: %v", key, err)
	}

	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}

	hash, _ := rec["key"].(string)
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("stored key is not a cost 10 bcrypt hash: %q", hash)
	}

	if got := st.expiry[key]; got != sphinx.StoreTTL {
		t.Errorf("stored with expiry %s, want %s", got, sphinx.StoreTTL)
	}
}

func TestCreateErrors(t *testing.T) {
	s, _ := spawnSphinx(t)

	if _, err := s.Create(t.Context(), "", config.Overrides{}); !errors.Is(err, ErrEmptySession) {
		t.Errorf("want ErrEmptySession, got: %v", err)
	}

	for _, tt := range []struct {
		name  string
		input map[string]any
		err   error
	}{
		{
			name:  "zero font size",
			input: map[string]any{"fontSize": 0},
			err:   config.ErrFontSizeNotPositive,
		},
		{
			name:  "huge font size",
			input: map[string]any{"fontSize": config.MaxFontSize + 1},
			err:   config.ErrFontSizeTooLarge,
		},
		{
			name:  "huge dimensions",
			input: map[string]any{"imageW": 1 << 40, "imageH": 1 << 40},
			err:   config.ErrCanvasTooLarge,
		},
		{
			name:  "wide canvas",
			input: map[string]any{"imageW": config.MaxDimension + 1},
			err:   config.ErrCanvasTooLarge,
		},
		{
			name:  "too many pixels",
			input: map[string]any{"imageW": config.MaxDimension, "imageH": config.MaxDimension},
			err:   config.ErrCanvasTooLarge,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			id := challengetest.SessionID(t)

			_, err := s.CreateFromMap(t.Context(), id, tt.input)
			if !errors.Is(err, ErrBadConfig) || !errors.Is(err, tt.err) {
				t.Logf("want: %v", tt.err)
				t.Logf("got:  %v", err)
				t.Error("invalid error returned")
			}
		})
	}

	t.Run("unrepresentable numbers are ignored", func(t *testing.T) {
		uri, err := s.CreateFromMap(t.Context(), challengetest.SessionID(t), map[string]any{"imageW": 1e300, "imageH": -1e300})
		if err != nil {
			t.Fatal(err)
		}

		wantW, wantH := config.CanvasSize(config.Default())
		if w, h := decodeDataURI(t, uri); w != wantW || h != wantH {
			t.Errorf("want default %dx%d canvas, got %dx%d", wantW, wantH, w, h)
		}
	})
}

func TestNoFonts(t *testing.T) {
	st := memory.New(t.Context())

	s, err := New(Options{Store: st, Fonts: assets.FS(fstest.MapFS{})})
	if err != nil {
		t.Fatal(err)
	}

	id := challengetest.SessionID(t)
	if _, err := s.Create(t.Context(), id, config.Overrides{}); !errors.Is(err, ErrNoFonts) {
		t.Fatalf("want ErrNoFonts, got: %v", err)
	}

	if ok, _ := st.Has(t.Context(), sphinx.KeyPrefix+internal.MD5sum(id)); ok {
		t.Error("commitment stored for a challenge that was never rendered")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoStore) {
		t.Errorf("want ErrNoStore, got: %v", err)
	}

	cfg := config.Default()
	cfg.CodeSet = ""
	if _, err := New(Options{Store: memory.New(t.Context()), Config: &cfg}); !errors.Is(err, ErrBadConfig) {
		t.Errorf("want ErrBadConfig, got: %v", err)
	}
}

func TestCheckSingleUse(t *testing.T) {
	s, _ := spawnSphinx(t)
	id := challengetest.SessionID(t)

	iss, err := s.Issue(t.Context(), id, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	if !s.Check(t.Context(), id, iss.Plaintext) {
		t.Fatal("correct answer rejected")
	}

	if s.Check(t.Context(), id, iss.Plaintext) {
		t.Fatal("challenge passed twice")
	}
}

func TestCheckCaseInsensitive(t *testing.T) {
	s, _ := spawnSphinx(t)

	for _, fold := range []func(string) string{strings.ToLower, strings.ToUpper} {
		id := challengetest.SessionID(t)

		iss, err := s.Issue(t.Context(), id, config.Overrides{})
		if err != nil {
			t.Fatal(err)
		}

		if !s.Check(t.Context(), id, fold(iss.Plaintext)) {
			t.Errorf("%q rejected for %q", fold(iss.Plaintext), iss.Plaintext)
		}
	}
}

func TestCheckWrongAnswersKeepChallenge(t *testing.T) {
	s, st := spawnSphinx(t)
	id := challengetest.SessionID(t)

	iss, err := s.Issue(t.Context(), id, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if s.Check(t.Context(), id, "wrong") {
			t.Fatal("wrong answer accepted")
		}
	}

	if st.deletes != 0 {
		t.Errorf("wrong answers deleted the commitment %d times", st.deletes)
	}

	if !s.Check(t.Context(), id, iss.Plaintext) {
		t.Error("correct answer rejected after wrong ones")
	}
}

func TestCheckUnknownSession(t *testing.T) {
	s, _ := spawnSphinx(t)

	for _, id := range []string{"", "never-issued", challengetest.SessionID(t)} {
		if s.Check(t.Context(), id, "ABCD") {
			t.Errorf("session %q passed without a challenge", id)
		}
	}
}

func TestCheckOtherSession(t *testing.T) {
	s, _ := spawnSphinx(t)
	a, b := challengetest.SessionID(t), challengetest.SessionID(t)

	iss, err := s.Issue(t.Context(), a, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	if s.Check(t.Context(), b, iss.Plaintext) {
		t.Error("answer for one session passed another")
	}

	if !s.Check(t.Context(), a, iss.Plaintext) {
		t.Error("answer rejected for its own session")
	}
}

func TestReissueReplaces(t *testing.T) {
	s, _ := spawnSphinx(t)
	id := challengetest.SessionID(t)
	length := 8

	first, err := s.Issue(t.Context(), id, config.Overrides{Length: &length})
	if err != nil {
		t.Fatal(err)
	}

	second, err := s.Issue(t.Context(), id, config.Overrides{Length: &length})
	if err != nil {
		t.Fatal(err)
	}

	if first.Plaintext == second.Plaintext {
		t.Skip("drew the same code twice")
	}

	if s.Check(t.Context(), id, first.Plaintext) {
		t.Error("replaced challenge still passes")
	}

	if !s.Check(t.Context(), id, second.Plaintext) {
		t.Error("replacement challenge rejected")
	}
}

func TestArithmetic(t *testing.T) {
	s, _ := spawnSphinx(t)
	id := challengetest.SessionID(t)
	yes := true

	iss, err := s.Issue(t.Context(), id, config.Overrides{Math: &yes})
	if err != nil {
		t.Fatal(err)
	}

	if iss.Width != 180 || iss.Height != 62 {
		t.Errorf("want 180x62, got %dx%d", iss.Width, iss.Height)
	}

	var x, y int
	if _, err := fmt.Sscanf(iss.Plaintext, "%d + %d = ", &x, &y); err != nil {
		t.Fatalf("can't parse %q: %v", iss.Plaintext, err)
	}

	if s.Check(t.Context(), id, strconv.Itoa(x+y+1)) {
		t.Error("wrong sum accepted")
	}

	if !s.Check(t.Context(), id, strconv.Itoa(x+y)) {
		t.Error("correct sum rejected")
	}
}

func TestCreateFromMap(t *testing.T) {
	s, _ := spawnSphinx(t)

	uri, err := s.CreateFromMap(t.Context(), challengetest.SessionID(t), map[string]any{
		"length":   "6",
		"useNoise": false,
		"seKey":    "ignored",
		"fontSize": "huge",
	})
	if err != nil {
		t.Fatal(err)
	}

	if w, h := decodeDataURI(t, uri); w != 270 || h != 62 {
		t.Errorf("want 270x62, got %dx%d", w, h)
	}
}

func TestMetrics(t *testing.T) {
	s, _ := spawnSphinx(t)
	id := challengetest.SessionID(t)

	issued := testutil.ToFloat64(challenge.Issued.WithLabelValues(challenge.ModeAlphanumeric))
	passed := testutil.ToFloat64(challenge.Validated.WithLabelValues("pass"))
	failed := testutil.ToFloat64(challenge.Validated.WithLabelValues("fail"))
	missing := testutil.ToFloat64(challenge.Validated.WithLabelValues("missing"))

	iss, err := s.Issue(t.Context(), id, config.Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	s.Check(t.Context(), id, "nope")
	s.Check(t.Context(), id, iss.Plaintext)
	s.Check(t.Context(), id, iss.Plaintext)

	for _, tt := range []struct {
		name        string
		before, now float64
	}{
		{"issued", issued, testutil.ToFloat64(challenge.Issued.WithLabelValues(challenge.ModeAlphanumeric))},
		{"pass", passed, testutil.ToFloat64(challenge.Validated.WithLabelValues("pass"))},
		{"fail", failed, testutil.ToFloat64(challenge.Validated.WithLabelValues("fail"))},
		{"missing", missing, testutil.ToFloat64(challenge.Validated.WithLabelValues("missing"))},
	} {
		if tt.now-tt.before != 1 {
			t.Errorf("%s: want one more, got %f -> %f", tt.name, tt.before, tt.now)
		}
	}
}

func TestConcurrent(t *testing.T) {
	s, _ := spawnSphinx(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			id := challengetest.SessionID(t)
			iss, err := s.Issue(t.Context(), id, config.Overrides{})
			if err != nil {
				errs <- err
				return
			}

			if !s.Check(t.Context(), id, iss.Plaintext) {
				errs <- fmt.Errorf("session %s: correct answer rejected", id)
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
