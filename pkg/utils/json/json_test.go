package json

import (
	"bytes"
	"runtime"
	"sync"
	"testing"
)

type authzPayload struct {
	UserID      uint64   `json:"user_id"`
	TenantID    uint64   `json:"tenant_id"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

func samplePayload() *authzPayload {
	return &authzPayload{
		UserID:      42,
		TenantID:    7,
		Roles:       []string{"ADMIN", "AUDITOR"},
		Permissions: []string{"USER_EDIT", "USER_VIEW"},
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := Marshal(samplePayload())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal() returned empty bytes")
	}

	var decoded authzPayload
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.UserID != 42 || len(decoded.Permissions) != 2 {
		t.Errorf("roundtrip mismatch: %+v", decoded)
	}

	if err := Unmarshal([]byte("{not json"), &decoded); err == nil {
		t.Error("Unmarshal() should fail on malformed input")
	}
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(samplePayload()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded authzPayload
	if err := NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.TenantID != 7 {
		t.Errorf("TenantID = %d, want 7", decoded.TenantID)
	}
}

func TestIsUsingSonic(t *testing.T) {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		if !IsUsingSonic() {
			t.Errorf("expected sonic on %s", runtime.GOARCH)
		}
	default:
		if IsUsingSonic() {
			t.Errorf("expected stdlib fallback on %s", runtime.GOARCH)
		}
	}
}

func TestConfigModes(t *testing.T) {
	defer ConfigStandardMode()

	payload := samplePayload()

	ConfigFastestMode()
	fast, err := Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() in fastest mode error = %v", err)
	}

	ConfigStandardMode()
	std, err := Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() in standard mode error = %v", err)
	}

	var a, b authzPayload
	if err := Unmarshal(fast, &a); err != nil {
		t.Fatalf("Unmarshal(fast) error = %v", err)
	}
	if err := Unmarshal(std, &b); err != nil {
		t.Fatalf("Unmarshal(std) error = %v", err)
	}
	if a.UserID != b.UserID || len(a.Roles) != len(b.Roles) {
		t.Error("modes disagree on the same payload")
	}
}

func TestConcurrentMarshalUnmarshal(t *testing.T) {
	const goroutines = 16
	const iterations = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				data, err := Marshal(samplePayload())
				if err != nil {
					t.Errorf("Marshal() error = %v", err)
					return
				}
				var decoded authzPayload
				if err := Unmarshal(data, &decoded); err != nil {
					t.Errorf("Unmarshal() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
