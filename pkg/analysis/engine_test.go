package analysis

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verifiai/authenticity/pkg/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := newTestEngine(t)
	buf := makeJPEG(bytes.Repeat([]byte{0x4D, 0x61}, 600))

	first := e.Analyze(buf, MimeJPEG)
	for i := 0; i < 10; i++ {
		again := e.Analyze(buf, MimeJPEG)
		if again.Score != first.Score ||
			again.Category != first.Category ||
			again.IsDeepfake != first.IsDeepfake ||
			!again.Timestamp.Equal(first.Timestamp) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
		for name, v := range first.FeatureContributions {
			if again.FeatureContributions[name] != v {
				t.Fatalf("run %d: %s = %v, want %v", i, name, again.FeatureContributions[name], v)
			}
		}
	}
}

func TestAnalyzeEmptyBufferIsNeutral(t *testing.T) {
	e := newTestEngine(t)

	got := e.Analyze(nil, MimeJPEG)
	if got.Score != 50 {
		t.Fatalf("empty buffer scored %v, want 50", got.Score)
	}
	if got.Category != CategoryUncertain {
		t.Errorf("category %q, want %q", got.Category, CategoryUncertain)
	}
	if got.IsDeepfake {
		t.Error("empty buffer flagged as deepfake")
	}
	for name, v := range got.FeatureContributions {
		if v != 50 {
			t.Errorf("%s = %v, want 50", name, v)
		}
	}
}

// An empty video buffer scores exactly 50, so the frame count formula
// pins to 8 + (50 mod 10) = 8.
func TestAnalyzeEmptyVideoGetsEightFrames(t *testing.T) {
	e := newTestEngine(t)

	got := e.Analyze(nil, MimeMP4)
	if got.FileType != FileTypeVideo {
		t.Fatalf("file type %q, want video", got.FileType)
	}
	if got.FramesAnalyzed != 8 {
		t.Fatalf("frames_analyzed = %d, want 8", got.FramesAnalyzed)
	}
	if len(got.FrameScores) != 8 {
		t.Fatalf("len(frame_scores) = %d, want 8", len(got.FrameScores))
	}
}

func TestAnalyzeImageHasNoFrames(t *testing.T) {
	e := newTestEngine(t)
	got := e.Analyze(makeJPEG([]byte("still image")), MimeJPEG)
	if got.FrameScores != nil || got.FramesAnalyzed != 0 {
		t.Fatalf("image result carries frame data: %d frames", got.FramesAnalyzed)
	}
}

func TestAnalyzeVideoFrameCountMatchesScore(t *testing.T) {
	e := newTestEngine(t)
	buf := makeMP4(bytes.Repeat([]byte{0x88, 0x31}, 900))

	got := e.Analyze(buf, MimeMP4)
	wantFrames := frameCountBase + int(math.Round(got.Score))%frameCountMod
	if got.FramesAnalyzed != wantFrames {
		t.Fatalf("frames_analyzed=%d, want %d for score %v", got.FramesAnalyzed, wantFrames, got.Score)
	}
	if got.FramesAnalyzed != len(got.FrameScores) {
		t.Fatalf("frames_analyzed %d != len(frame_scores) %d", got.FramesAnalyzed, len(got.FrameScores))
	}
}

func TestAnalyzeAllOutputsBounded(t *testing.T) {
	e := newTestEngine(t)
	inputs := []struct {
		buf       []byte
		mediaType string
	}{
		{makeJPEG(bytes.Repeat([]byte{0x00, 0xFF}, 800)), MimeJPEG},
		{makePNG(bytes.Repeat([]byte{0x7F}, 3000)), MimePNG},
		{makeMP4(bytes.Repeat([]byte{0x12, 0x34, 0x56}, 500)), MimeQuickTime},
		{[]byte("x"), "application/octet-stream"},
		{bytes.Repeat([]byte{0xEE}, 50000), MimeJPEG},
	}

	for _, in := range inputs {
		got := e.Analyze(in.buf, in.mediaType)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("%s %d bytes: score %v outside [0,100]", in.mediaType, len(in.buf), got.Score)
		}
		if len(got.FeatureContributions) != 11 {
			t.Errorf("%s: %d contributions, want 11", in.mediaType, len(got.FeatureContributions))
		}
		for name, v := range got.FeatureContributions {
			if v < 0 || v > 100 {
				t.Errorf("%s: %s = %v outside [0,100]", in.mediaType, name, v)
			}
		}
		for i, f := range got.FrameScores {
			if f < 5 || f > 95 {
				t.Errorf("%s frame %d: %v outside [5,95]", in.mediaType, i, f)
			}
		}
	}
}

func TestAnalyzeWithRemoteNoClientIsLocal(t *testing.T) {
	e := newTestEngine(t)
	buf := makeJPEG([]byte("no remote configured"))

	local := e.Analyze(buf, MimeJPEG)
	withRemote := e.AnalyzeWithRemote(context.Background(), buf, MimeJPEG)
	if withRemote.Score != local.Score || withRemote.Category != local.Category {
		t.Fatalf("remote-less engine diverged: %+v vs %+v", withRemote, local)
	}
}

func newRemoteTestEngine(t *testing.T, url string, timeoutMs int) *Engine {
	t.Helper()
	cfg := config.NewLocalConfig()
	cfg.RemoteDetectorURL = url
	cfg.RemoteTimeoutMs = timeoutMs

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.now = func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func assertResultsEqual(t *testing.T, got, want *AnalysisResult) {
	t.Helper()
	if got.Score != want.Score || got.Category != want.Category ||
		got.IsDeepfake != want.IsDeepfake || got.FileType != want.FileType ||
		!got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("results differ:\ngot  %+v\nwant %+v", got, want)
	}
	if len(got.FeatureContributions) != len(want.FeatureContributions) {
		t.Fatalf("contribution counts differ: %d vs %d",
			len(got.FeatureContributions), len(want.FeatureContributions))
	}
	for name, v := range want.FeatureContributions {
		if got.FeatureContributions[name] != v {
			t.Fatalf("%s = %v, want %v", name, got.FeatureContributions[name], v)
		}
	}
	if len(got.FrameScores) != len(want.FrameScores) {
		t.Fatalf("frame counts differ: %d vs %d", len(got.FrameScores), len(want.FrameScores))
	}
	for i := range want.FrameScores {
		if got.FrameScores[i] != want.FrameScores[i] {
			t.Fatalf("frame %d = %v, want %v", i, got.FrameScores[i], want.FrameScores[i])
		}
	}
}

func TestAnalyzeWithRemoteErrorFallsBackToLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "detector offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := newRemoteTestEngine(t, srv.URL, 1000)
	buf := makeJPEG([]byte("remote is down"))

	local := e.Analyze(buf, MimeJPEG)
	got := e.AnalyzeWithRemote(context.Background(), buf, MimeJPEG)
	assertResultsEqual(t, got, local)
}

func TestAnalyzeWithRemoteTimeoutFallsBackToLocal(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	e := newRemoteTestEngine(t, srv.URL, 50)
	buf := makeMP4([]byte("remote hangs"))

	local := e.Analyze(buf, MimeMP4)
	got := e.AnalyzeWithRemote(context.Background(), buf, MimeMP4)
	assertResultsEqual(t, got, local)
}

func TestAnalyzeWithRemoteMergesOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 90, "analysis_details": {"facial_features": 90}}`))
	}))
	defer srv.Close()

	e := newRemoteTestEngine(t, srv.URL, 1000)
	buf := makeJPEG([]byte("remote agrees it is fake"))

	local := e.Analyze(buf, MimeJPEG)
	got := e.AnalyzeWithRemote(context.Background(), buf, MimeJPEG)

	want := round1(90*0.6 + local.Score*0.4)
	if got.Score != want {
		t.Fatalf("merged score %v, want %v", got.Score, want)
	}
	if got.Category != e.Policy().Categorize(want) {
		t.Fatalf("category %q not re-derived from merged score", got.Category)
	}
	wantFacial := round1(90*0.6 + local.FeatureContributions[FeatureFacial]*0.4)
	if got.FeatureContributions[FeatureFacial] != wantFacial {
		t.Fatalf("facial_features %v, want blended %v", got.FeatureContributions[FeatureFacial], wantFacial)
	}
}

func TestNewEngineCustomThresholds(t *testing.T) {
	cfg := config.NewLocalConfig()
	cfg.ManipulatedThreshold = 90
	cfg.SuspectThreshold = 70
	cfg.UncertainThreshold = 30

	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if got := e.Policy().Categorize(65); got != CategoryUncertain {
		t.Errorf("65 under custom bands -> %q, want %q", got, CategoryUncertain)
	}
	if e.Policy().IsDeepfake(65) {
		t.Error("65 flagged under suspect threshold 70")
	}
}

func TestNewEngineRejectsDegeneratePolicy(t *testing.T) {
	cfg := config.NewLocalConfig()
	cfg.UncertainThreshold = 0 // collides with the zero-anchored band

	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected error for duplicate band lower bound")
	}
}
