package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientsAreSharedPerTier(t *testing.T) {
	if Client(TierStandard) != Client(TierStandard) {
		t.Error("TierStandard must return one shared client")
	}
	if Client(TierStandard) == Client(TierExtended) {
		t.Error("tiers must not share a client")
	}
	if StandardClient() != Client(TierStandard) {
		t.Error("StandardClient must alias Client(TierStandard)")
	}
	if ExtendedClient() != Client(TierExtended) {
		t.Error("ExtendedClient must alias Client(TierExtended)")
	}
}

func TestTierTimeouts(t *testing.T) {
	if got := StandardClient().Timeout; got != timeoutDurations[TierStandard] {
		t.Errorf("standard timeout = %v", got)
	}
	if got := ExtendedClient().Timeout; got != timeoutDurations[TierExtended] {
		t.Errorf("extended timeout = %v", got)
	}
	if StandardClient().Timeout >= ExtendedClient().Timeout {
		t.Error("extended tier must outlast the standard tier")
	}
}

func TestReadResponseBodyCapsSize(t *testing.T) {
	body := strings.NewReader(strings.Repeat("x", 100))
	got, err := ReadResponseBody(body, 10)
	if err != nil {
		t.Fatalf("ReadResponseBody: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("read %d bytes, want cap of 10", len(got))
	}
}

func TestReadResponseBodyDefaultCap(t *testing.T) {
	body := strings.NewReader("small body")
	got, err := ReadResponseBody(body, 0)
	if err != nil {
		t.Fatalf("ReadResponseBody: %v", err)
	}
	if string(got) != "small body" {
		t.Fatalf("got %q", got)
	}
}

func TestReadErrorBodyCapsSize(t *testing.T) {
	huge := bytes.NewReader(make([]byte, 2*1024*1024))
	got, err := ReadErrorBody(huge)
	if err != nil {
		t.Fatalf("ReadErrorBody: %v", err)
	}
	if len(got) != 1024*1024 {
		t.Fatalf("read %d bytes, want 1MB cap", len(got))
	}
}

func TestDrainAndClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("response payload"))
	}))
	defer srv.Close()

	resp, err := StandardClient().Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	DrainAndClose(resp.Body)

	// Body must be unusable after DrainAndClose.
	buf := make([]byte, 1)
	if n, _ := resp.Body.Read(buf); n != 0 {
		t.Error("body still readable after DrainAndClose")
	}

	DrainAndClose(nil) // must not panic
}
