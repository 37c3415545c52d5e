package images

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/artshop/internal/apperr"
)

func TestCheckUpload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		up      Upload
		wantErr bool
	}{
		{name: "png", up: Upload{ContentType: "image/png", Size: 10}},
		{name: "jpeg with params", up: Upload{ContentType: "image/jpeg; charset=binary", Size: 10}},
		{name: "text", up: Upload{ContentType: "text/plain", Size: 10}, wantErr: true},
		{name: "too big", up: Upload{ContentType: "image/gif", Size: 2 << 20}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckUpload(tt.up, 1<<20)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLocalStore_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := &LocalStore{Dir: dir, BaseURL: "/uploads/"}

	url, err := store.Save(context.Background(), Upload{
		Filename:    "cat.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/uploads/")
	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))
}

func TestLocalStore_Save_ExtensionFromContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
	}{
		{name: "html name", filename: "x.html", contentType: "image/png", want: ".png"},
		{name: "svg name", filename: "logo.svg", contentType: "image/jpeg", want: ".jpg"},
		{name: "no extension", filename: "avatar", contentType: "image/webp; q=1", want: ".webp"},
		{name: "double extension", filename: "a.gif.php", contentType: "image/gif", want: ".gif"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &LocalStore{Dir: t.TempDir(), BaseURL: "/uploads/"}
			url, err := store.Save(context.Background(), Upload{
				Filename:    tt.filename,
				ContentType: tt.contentType,
				Size:        4,
				Body:        strings.NewReader("data"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, path.Ext(url))
			assert.NotContains(t, url, tt.filename)
		})
	}
}

func TestS3Store_Key(t *testing.T) {
	t.Parallel()

	s := &S3Store{Prefix: "/images/"}
	assert.Equal(t, "images/a.png", s.key("a.png"))

	s.Prefix = ""
	assert.Equal(t, "a.png", s.key("a.png"))
}
