package media

import (
	"strings"
	"testing"
)

func TestKeyFromURL(t *testing.T) {
	u := &Uploader{
		bucket:        "videotube-media",
		publicBaseURL: "https://cdn.example.com/videotube-media",
	}

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "current public base",
			url:  "https://cdn.example.com/videotube-media/uploads/2026/08/28/abc.png",
			want: "uploads/2026/08/28/abc.png",
		},
		{
			name: "path-style URL from previous base",
			url:  "http://localhost:9000/videotube-media/uploads/2026/01/01/def.jpg",
			want: "uploads/2026/01/01/def.jpg",
		},
		{
			name: "foreign host keeps path as key",
			url:  "https://other.example.com/uploads/2026/01/01/ghi.jpg",
			want: "uploads/2026/01/01/ghi.jpg",
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "no key in URL",
			url:     "https://other.example.com/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := u.keyFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("keyFromURL(%q) expected error, got %q", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("keyFromURL(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("keyFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestStorageKey(t *testing.T) {
	key := storageKey(".png")

	if !strings.HasPrefix(key, "uploads/") {
		t.Errorf("storage key %q should live under uploads/", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("storage key %q should keep the extension", key)
	}
	if parts := strings.Split(key, "/"); len(parts) != 5 {
		t.Errorf("storage key %q should be date partitioned, got %d segments", key, len(parts))
	}

	if storageKey(".png") == key {
		t.Error("consecutive storage keys must not collide")
	}
}
