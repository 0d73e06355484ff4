package preview

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.DebounceWindow != 300*time.Millisecond {
		t.Errorf("DebounceWindow: got %v", o.DebounceWindow)
	}
	if !o.AutoRefresh {
		t.Error("AutoRefresh should default to true")
	}
	if o.Device != DeviceDesktop {
		t.Errorf("Device: got %q", o.Device)
	}
	if o.ScriptURL != DefaultScriptURL {
		t.Errorf("ScriptURL: got %q", o.ScriptURL)
	}
}

func TestParseOptions(t *testing.T) {
	base := DefaultOptions()

	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, o Options)
		wantErr error
		anyErr  bool
	}{
		{
			name:    "empty payload keeps base",
			payload: "",
			check: func(t *testing.T, o Options) {
				if o != base {
					t.Errorf("got %+v, want base", o)
				}
			},
		},
		{
			name:    "all fields",
			payload: `{"debounce_ms":500,"loading_ms":0,"auto_refresh":false,"device":"mobile"}`,
			check: func(t *testing.T, o Options) {
				if o.DebounceWindow != 500*time.Millisecond || o.LoadingDelay != 0 || o.AutoRefresh || o.Device != DeviceMobile {
					t.Errorf("unexpected options: %+v", o)
				}
				if o.ScriptURL != base.ScriptURL {
					t.Error("ScriptURL must not be client controlled")
				}
			},
		},
		{
			name:    "partial keeps other defaults",
			payload: `{"device":"tablet"}`,
			check: func(t *testing.T, o Options) {
				if o.Device != DeviceTablet || o.DebounceWindow != base.DebounceWindow || !o.AutoRefresh {
					t.Errorf("unexpected options: %+v", o)
				}
			},
		},
		{name: "unknown field", payload: `{"debounce":100}`, wantErr: ErrUnknownOption},
		{name: "script url is not accepted", payload: `{"script_url":"https://evil.example"}`, wantErr: ErrUnknownOption},
		{name: "negative debounce", payload: `{"debounce_ms":-1}`, anyErr: true},
		{name: "debounce too large", payload: `{"debounce_ms":60000}`, anyErr: true},
		{name: "bad device", payload: `{"device":"watch"}`, anyErr: true},
		{name: "malformed", payload: `{"device":`, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOptions([]byte(tt.payload), base)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				if o != base {
					t.Error("base should be returned on error")
				}
			case tt.anyErr:
				if err == nil {
					t.Fatal("expected an error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				tt.check(t, o)
			}
		})
	}
}

func TestDeviceWidth(t *testing.T) {
	tests := []struct {
		device Device
		width  int
		valid  bool
	}{
		{DeviceMobile, 375, true},
		{DeviceTablet, 768, true},
		{DeviceDesktop, 0, true},
		{Device("tv"), 0, false},
	}
	for _, tt := range tests {
		if got := tt.device.Width(); got != tt.width {
			t.Errorf("%s.Width() = %d, want %d", tt.device, got, tt.width)
		}
		if got := tt.device.Valid(); got != tt.valid {
			t.Errorf("%s.Valid() = %v, want %v", tt.device, got, tt.valid)
		}
	}
}
