package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetURL(t *testing.T) {
	tests := []struct {
		name      string
		thumbnail string
		want      string
		wantOK    bool
	}{
		{
			name:      "standard thumbnail",
			thumbnail: "https://clips-media-assets2.twitch.tv/AT-cm%7C123456-preview-480x272.jpg",
			want:      "https://clips-media-assets2.twitch.tv/AT-cm%7C123456.mp4",
			wantOK:    true,
		},
		{
			name:      "suffix in the middle is replaced in place",
			thumbnail: "https://cdn.example/a-preview-480x272.jpg?sig=abc",
			want:      "https://cdn.example/a.mp4?sig=abc",
			wantOK:    true,
		},
		{
			name:      "only first occurrence replaced",
			thumbnail: "https://cdn.example/x-preview-480x272.jpg/y-preview-480x272.jpg",
			want:      "https://cdn.example/x.mp4/y-preview-480x272.jpg",
			wantOK:    true,
		},
		{
			name:      "different thumbnail size",
			thumbnail: "https://cdn.example/a-preview-260x147.jpg",
			wantOK:    false,
		},
		{
			name:      "empty",
			thumbnail: "",
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssetURL(tt.thumbnail)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssetURL_PinnedSuffix(t *testing.T) {
	assert.Equal(t, "-preview-480x272.jpg", ThumbnailSuffix)
	assert.Equal(t, ".mp4", AssetSuffix)
}

func TestClip_VideoURLAndObjectKey(t *testing.T) {
	c := Clip{ID: "FunnyClip-abc", ThumbnailURL: "https://cdn.example/FunnyClip-preview-480x272.jpg"}

	url, ok := c.VideoURL()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/FunnyClip.mp4", url)

	assert.Equal(t, "FunnyClip-abc.mp4", c.ObjectKey(""))
	assert.Equal(t, "clips/FunnyClip-abc.mp4", c.ObjectKey("clips/"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("random")
	require.NoError(t, err)
	assert.Equal(t, ModeRandom, m)

	m, err = ParseMode("all")
	require.NoError(t, err)
	assert.Equal(t, ModeAll, m)

	_, err = ParseMode("first")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSelector_Select(t *testing.T) {
	clips := []Clip{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("empty listing selects nothing", func(t *testing.T) {
		assert.Nil(t, NewSelector(ModeRandom).Select(nil))
		assert.Nil(t, NewSelector(ModeAll).Select([]Clip{}))
	})

	t.Run("random uses index source", func(t *testing.T) {
		var gotN int
		s := NewSelector(ModeRandom, WithIntN(func(n int) int {
			gotN = n
			return 2
		}))

		got := s.Select(clips)
		require.Len(t, got, 1)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, 3, gotN)
	})

	t.Run("random default stays in range", func(t *testing.T) {
		s := NewSelector(ModeRandom)
		for i := 0; i < 50; i++ {
			got := s.Select(clips)
			require.Len(t, got, 1)
			assert.Contains(t, []string{"a", "b", "c"}, got[0].ID)
		}
	})

	t.Run("all keeps listing order", func(t *testing.T) {
		got := NewSelector(ModeAll).Select(clips)
		assert.Equal(t, clips, got)

		got[0].ID = "changed"
		assert.Equal(t, "a", clips[0].ID)
	})
}
