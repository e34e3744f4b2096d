package predict

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "crash.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func TestClientPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "crash.jpg", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake-jpeg-bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, err = w.Write([]byte(`{"accident_detected":true,"location":"N/A"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	contentType, body := multipartBody(t)

	result, err := client.Predict(context.Background(), contentType, body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/json", result.ContentType)
	assert.JSONEq(t, `{"accident_detected":true,"location":"N/A"}`, string(result.Body))
}

func TestClientPredictRelaysBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"unsupported media type"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	contentType, body := multipartBody(t)

	result, err := client.Predict(context.Background(), contentType, body)
	require.NoError(t, err, "backend-level errors are relayed, not mapped")
	assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
	assert.JSONEq(t, `{"error":"unsupported media type"}`, string(result.Body))
}

func TestClientDisabled(t *testing.T) {
	client := NewClient("")
	assert.False(t, client.Enabled())

	_, err := client.Predict(context.Background(), "multipart/form-data", bytes.NewReader(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
