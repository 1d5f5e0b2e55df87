package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><head><title>Tra cứu 3.321 phường, xã</title></head><body>
<div class="flourish-embed flourish-table" data-src="visualisation/23925839"><script src="embed.js"></script></div>
<div class="flourish-embed" data-src="visualisation/1"><iframe src="https://flo.uri.sh/visualisation/1/embed"></iframe></div>
</body></html>`

func compress(t *testing.T, encoding string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "deflate":
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case "br":
		w := brotli.NewWriter(&buf)
		_, err := w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		return data
	}
	return buf.Bytes()
}

func TestDecompressResponse(t *testing.T) {
	plain := []byte("Phường Ba Đình")
	for _, enc := range []string{"gzip", "deflate", "br", "", "identity"} {
		t.Run("编码"+enc, func(t *testing.T) {
			got, err := decompressResponse(enc, compress(t, enc, plain))
			require.NoError(t, err)
			assert.Equal(t, plain, got)
		})
	}

	t.Run("已解压的gzip原样返回", func(t *testing.T) {
		got, err := decompressResponse("gzip", plain)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	})

	t.Run("损坏的brotli数据", func(t *testing.T) {
		_, err := decompressResponse("br", []byte("not brotli at all"))
		assert.Error(t, err)
	})
}

func TestStaticInspector_Inspect(t *testing.T) {
	for _, enc := range []string{"br", "deflate", ""} {
		t.Run("响应编码"+enc, func(t *testing.T) {
			var gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				if enc != "" {
					w.Header().Set("Content-Encoding", enc)
				}
				_, _ = w.Write(compress(t, enc, []byte(articleHTML)))
			}))
			defer srv.Close()

			headers := http.Header{
				"User-Agent":      {"unitcrawl-test"},
				"Accept-Encoding": {"gzip, deflate, br"},
			}
			report, err := NewStaticInspector(headers, 0).Inspect(context.Background(), srv.URL)
			require.NoError(t, err)

			assert.Equal(t, "unitcrawl-test", gotUA)
			assert.Equal(t, http.StatusOK, report.StatusCode)
			assert.Equal(t, "Tra cứu 3.321 phường, xã", report.Title)
			require.Len(t, report.Embeds, 2)
			assert.Equal(t, "visualisation/23925839", report.Embeds[0].DataSrc)
			assert.False(t, report.Embeds[0].HasIframe)
			assert.True(t, report.Embeds[1].HasIframe)
		})
	}
}

func TestStaticInspector_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	report, err := NewStaticInspector(nil, 0).Inspect(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, report.StatusCode)
}
