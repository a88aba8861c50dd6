package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	rec := httptest.NewRecorder()

	testJson := `{"setNumber":1}`
	WriteResponseBytes(rec, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rec.Body.String())
}

func TestWriteResponseBytesOK(t *testing.T) {
	rec := httptest.NewRecorder()

	testJson := `{"reps":10}`
	WriteResponseBytesOK(rec, ContentType.JSON, []byte(testJson))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rec.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteTextResponseOK(rec, "logged")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType.Text, rec.Header().Get("Content-Type"))
	assert.Equal(t, "logged", rec.Body.String())
}

func TestWriteJSONResponseOK(t *testing.T) {
	rec := httptest.NewRecorder()

	testJson := `{"deletedId":3}`
	WriteJSONResponseOK(rec, testJson)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rec.Body.String())
}
