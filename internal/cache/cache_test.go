package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "connection_cache.json"))
}

func TestStore_AbsentFileIsEmptyCache(t *testing.T) {
	s := tempStore(t)
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load() on absent file returned error: %v", err)
	}
	if rec.HasEndpoint() {
		t.Errorf("absent file should yield empty record, got %v", rec)
	}
}

func TestStore_Roundtrip(t *testing.T) {
	s := tempStore(t)
	in := Record{
		IP:          "192.168.1.50",
		Port:        37777,
		MAC:         "dc:6a:ee:11:22:33",
		DeviceName:  "my-phone",
		DeviceModel: "Redmi 10",
	}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if out.IP != in.IP || out.Port != in.Port || out.MAC != in.MAC ||
		out.DeviceName != in.DeviceName || out.DeviceModel != in.DeviceModel {
		t.Errorf("Load() = %+v, want %+v", out, in)
	}
	if out.LastConn.IsZero() || time.Since(out.LastConn) > time.Minute {
		t.Errorf("Save() should stamp LastConn, got %v", out.LastConn)
	}
}

func TestStore_RejectsRecordWithoutEndpoint(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(Record{MAC: "dc:6a:ee:11:22:33"}); err == nil {
		t.Error("Save() accepted a record without ip:port")
	}
}

func TestStore_EnforcesEndpointPairOnLoad(t *testing.T) {
	s := tempStore(t)
	// Hand-written cache with a port but no ip violates the invariant.
	os.MkdirAll(filepath.Dir(s.Path()), 0700)
	os.WriteFile(s.Path(), []byte(`{"port": 37777, "mac": "dc:6a:ee:11:22:33"}`), 0600)

	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if rec.HasEndpoint() || rec.Port != 0 {
		t.Errorf("half-present endpoint should be cleared, got %+v", rec)
	}
	if rec.MAC != "dc:6a:ee:11:22:33" {
		t.Errorf("non-endpoint fields should survive, got %+v", rec)
	}
}

func TestStore_Clear(t *testing.T) {
	s := tempStore(t)
	if err := s.Save(Record{IP: "10.0.0.9", Port: 43449}); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("Clear() on missing file should be a no-op, got %v", err)
	}
	rec, _ := s.Load()
	if rec.HasEndpoint() {
		t.Errorf("cache should be empty after Clear, got %v", rec)
	}
}

func TestRecord_String(t *testing.T) {
	if got := (Record{}).String(); got != "empty" {
		t.Errorf("empty record String() = %q", got)
	}
	r := Record{IP: "192.168.1.50", Port: 37777, DeviceModel: "Redmi 10"}
	if got := r.String(); got != "192.168.1.50:37777 (Redmi 10)" {
		t.Errorf("String() = %q", got)
	}
}
