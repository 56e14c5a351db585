package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	cases := []struct {
		goos, goarch string
		want         string
		wantErr      bool
	}{
		{"darwin", "arm64", "skilltrail_Darwin_all.tar.gz", false},
		{"linux", "amd64", "skilltrail_Linux_x86_64.tar.gz", false},
		{"linux", "386", "skilltrail_Linux_i386.tar.gz", false},
		{"windows", "arm64", "skilltrail_Windows_arm64.zip", false},
		{"freebsd", "amd64", "", true},
		{"linux", "mips", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.goos+"/"+tc.goarch, func(t *testing.T) {
			got, err := assetNameFor(tc.goos, tc.goarch)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseChecksumsSkipsMalformedLines(t *testing.T) {
	got := parseChecksums([]byte("abc  a.tar.gz\nbroken\n\nx y z\ndef  b.zip\n"))
	assert.Equal(t, map[string]string{"a.tar.gz": "abc", "b.zip": "def"}, got)
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("roadmap")
	sum := sha256.Sum256(data)
	assert.NoError(t, verifyChecksum(data, hex.EncodeToString(sum[:])))
	assert.ErrorIs(t, verifyChecksum(data, "00"), ErrChecksum)
}

func TestExtractBinaryFromTarGz(t *testing.T) {
	archive := tarGz(t, "dist/skilltrail", []byte("bin"))
	got, err := extractBinary(archive, "skilltrail_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, []byte("bin"), got)

	_, err = extractBinary(tarGz(t, "README.md", []byte("x")), "skilltrail_Linux_x86_64.tar.gz")
	assert.ErrorContains(t, err, "not found")
}

func TestReplaceFileKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "skilltrail")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	data := []byte("new")
	sum := sha256.Sum256(data)
	require.NoError(t, replaceFile(target, data, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func releaseServer(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/skilltrail/releases/latest" {
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			return
		}
		if body, ok := files[r.URL.Path]; ok {
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := releaseServer(t, "v1.4.0", nil)
	c := NewChecker(WithBaseURL(srv.URL))

	res, err := c.Check(context.Background(), &CheckInput{Version: "1.3.9"})
	require.NoError(t, err)
	assert.True(t, res.UpdateAvailable)
	assert.Equal(t, "v1.4.0", res.LatestVersion)

	res, err = c.Check(context.Background(), &CheckInput{Version: "v1.4.0"})
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable)

	res, err = c.Check(context.Background(), &CheckInput{Version: "v1.10.0"})
	require.NoError(t, err)
	assert.False(t, res.UpdateAvailable, "semver ordering, not string ordering")
}

func TestUpdate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("release archives are zip on windows")
	}
	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skip(err)
	}
	archive := tarGz(t, "skilltrail", []byte("fresh"))
	sum := sha256.Sum256(archive)
	dl := "/abhisek/skilltrail/releases/download/v2.0.0/"

	t.Run("replaces the executable", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", map[string][]byte{
			dl + asset:           archive,
			dl + "checksums.txt": []byte(hex.EncodeToString(sum[:]) + "  " + asset + "\n"),
		})
		exe := filepath.Join(t.TempDir(), "skilltrail")
		require.NoError(t, os.WriteFile(exe, []byte("stale"), 0o755))

		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL),
			withExecPath(func() (string, error) { return exe, nil }))

		var stages []string
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(p UpdateProgress) {
			stages = append(stages, p.Stage)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)

		got, err := os.ReadFile(exe)
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), got)
	})

	t.Run("bad checksum", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", map[string][]byte{
			dl + asset:           archive,
			dl + "checksums.txt": []byte("deadbeef  " + asset + "\n"),
		})
		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("missing archive", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", nil)
		c := NewChecker(WithBaseURL(srv.URL), WithDownloadBaseURL(srv.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, func(UpdateProgress) {})
		assert.ErrorContains(t, err, "download archive")
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", nil)
		c := NewChecker(WithBaseURL(srv.URL))
		err := c.Update(context.Background(), &UpdateInput{CurrentVersion: "2.0.0"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: "(devel)"}, func(UpdateProgress) {})
		assert.ErrorIs(t, err, ErrDevBuild)
	})
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
