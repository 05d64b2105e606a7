package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecal/coursecal/internal/rest"
)

type StubConverter struct {
	result     *Result
	err        error
	gotData    []byte
	gotSkip    bool
	invocation int
}

func (s *StubConverter) Convert(_ context.Context, data []byte, skipBreaks bool) (*Result, error) {
	s.invocation++
	s.gotData = data
	s.gotSkip = skipBreaks
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func uploadRequest(t *testing.T, fileContents []byte, skipBreaks string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "View_My_Courses.xlsx")
	require.NoError(t, err)
	_, err = part.Write(fileContents)
	require.NoError(t, err)
	if skipBreaks != "" {
		require.NoError(t, writer.WriteField("skip_breaks", skipBreaks))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var resp rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandlerConvert(t *testing.T) {
	t.Run("successful conversion returns a calendar attachment", func(t *testing.T) {
		stub := &StubConverter{result: &Result{Calendar: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), EventCount: 3}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		handler.Convert(rec, uploadRequest(t, []byte("workbook bytes"), ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="courses.ics"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", rec.Body.String())
		assert.Equal(t, []byte("workbook bytes"), stub.gotData)
		assert.False(t, stub.gotSkip)
	})

	t.Run("skip_breaks field is forwarded", func(t *testing.T) {
		stub := &StubConverter{result: &Result{Calendar: []byte("x"), EventCount: 1}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		handler.Convert(rec, uploadRequest(t, []byte("workbook"), "true"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, stub.gotSkip)
	})

	t.Run("invalid skip_breaks value is rejected", func(t *testing.T) {
		stub := &StubConverter{result: &Result{Calendar: []byte("x")}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		handler.Convert(rec, uploadRequest(t, []byte("workbook"), "perhaps"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, stub.invocation)
	})

	t.Run("validation failures map to 400 with a fixed message", func(t *testing.T) {
		stub := &StubConverter{err: &ConversionError{Kind: KindNoEventsFound, Stage: StageNormalizing, Err: assert.AnError}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		handler.Convert(rec, uploadRequest(t, []byte("workbook"), ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		resp := decodeError(t, rec)
		assert.Equal(t, UserMessage(KindNoEventsFound), resp.Error)
		// Internal details never leak to the user.
		assert.NotContains(t, resp.Error, assert.AnError.Error())
	})

	t.Run("internal failures map to 500", func(t *testing.T) {
		stub := &StubConverter{err: &ConversionError{Kind: KindEncoding, Stage: StageEncoding, Err: assert.AnError}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		handler.Convert(rec, uploadRequest(t, []byte("workbook"), ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, UserMessage(KindEncoding), decodeError(t, rec).Error)
	})

	t.Run("request without a file part is rejected", func(t *testing.T) {
		stub := &StubConverter{result: &Result{Calendar: []byte("x")}}
		handler := NewHandler(stub)
		rec := httptest.NewRecorder()

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())

		handler.Convert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, stub.invocation)
	})
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, userMessages[KindMissingColumn], UserMessage(KindMissingColumn))
	assert.Equal(t, userMessages[KindInternal], UserMessage(ErrorKind("something else")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(KindInvalidUpload))
	assert.Equal(t, http.StatusBadRequest, StatusCode(KindMissingColumn))
	assert.Equal(t, http.StatusBadRequest, StatusCode(KindNoEventsFound))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(KindEncoding))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(KindInternal))
}
