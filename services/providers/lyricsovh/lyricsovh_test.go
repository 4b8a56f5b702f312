package lyricsovh

import (
	"context"
	"testing"

	"karaoke-lyrics-go/services/providers"
)

func TestProviderInterface(t *testing.T) {
	var _ providers.Provider = &OVHProvider{}

	if NewProvider().Name() != "lyrics_ovh" {
		t.Errorf("unexpected provider name: %s", NewProvider().Name())
	}
}

func TestProviderRegistered(t *testing.T) {
	if !providers.Has(ProviderName) {
		t.Error("lyrics.ovh provider should be registered via init()")
	}
}

func TestFetchRequiresBothFields(t *testing.T) {
	p := NewProvider()

	tests := []struct {
		name   string
		artist string
		track  string
	}{
		{"Missing artist", "", "Hello"},
		{"Missing track", "Adele", ""},
		{"Missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Fetch(context.Background(), tt.artist, tt.track)
			if result != nil || err != nil {
				t.Errorf("Expected clean miss without network call, got result=%v err=%v", result, err)
			}
		})
	}
}
