package receivingHandler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	gorilla "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/raqeebanjum/seniordesignproject/internal/api/receiving"
	receivingRepository "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/repository"
	receivingService "github.com/raqeebanjum/seniordesignproject/internal/api/receiving/service"
	"github.com/raqeebanjum/seniordesignproject/internal/entity"
	"github.com/raqeebanjum/seniordesignproject/internal/middleware"
	"github.com/raqeebanjum/seniordesignproject/internal/workflow"
	"github.com/raqeebanjum/seniordesignproject/pkg/catalog"
	jwtPkg "github.com/raqeebanjum/seniordesignproject/pkg/jwt"
	"github.com/raqeebanjum/seniordesignproject/pkg/nlp"
	"github.com/raqeebanjum/seniordesignproject/pkg/redis"
	"github.com/raqeebanjum/seniordesignproject/pkg/speech"
	"github.com/raqeebanjum/seniordesignproject/pkg/utils"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type speechMock struct {
	mock.Mock
}

func (m *speechMock) Recognize(ctx context.Context, audio io.Reader, filename string) speech.Recognition {
	args := m.Called(ctx, audio, filename)
	return args.Get(0).(speech.Recognition)
}

func (m *speechMock) Synthesize(ctx context.Context, text string, locale entity.Locale) ([]byte, error) {
	args := m.Called(ctx, text, locale)
	audio, _ := args.Get(0).([]byte)
	return audio, args.Error(1)
}

func newTestApp(t *testing.T) (*fiber.App, *speechMock) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	cat := catalog.New(
		entity.PurchaseOrder{ID: "PO100", Items: []entity.Item{
			{Name: "Widget", ItemNumber: "I1", BinLocation: "B1"},
			{Name: "Gadget", ItemNumber: "I2", BinLocation: "B2"},
		}},
	)

	sp := &speechMock{}
	svc := receivingService.New(
		logger,
		receivingRepository.New(logger),
		workflow.NewMachine(nlp.NewClassifier(), cat),
		sp,
		redis.NewMemory(),
		&receivingService.ReceivingConfig{AudioCacheTTL: time.Minute, SessionIdleTTL: time.Hour, AudioURL: "/api/v1/receiving/audio"},
	)

	mw := middleware.New(logger)
	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc, utils.New()).Start(app.Group("/api/v1"))

	return app, sp
}

func doJSON(t *testing.T, app *fiber.App, method, path, session, body string, headers ...string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(receiving.SessionHeader, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, jsoniter.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func audioUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="audio"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestTurnFlowOverHTTP(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/v1/receiving/turn", "dock-1", `{"transcript":"PO100"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PO100", body["po_number"])
	assert.Equal(t, true, body["show_confirm_options"])
	assert.Equal(t, "new_po", body["intent"])
	assert.Equal(t, "awaiting_po", body["state"])
	assert.NotContains(t, body, "audio_url")

	status, body = doJSON(t, app, "POST", "/api/v1/receiving/turn", "dock-1", `{"transcript":"yes"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "awaiting_arrival", body["state"])
	assert.Equal(t, "B1", body["bin_location"])

	status, body = doJSON(t, app, "GET", "/api/v1/receiving/queue", "dock-1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dock-1", body["session_id"])
	assert.Equal(t, "PO100", body["current_po"])
	assert.Len(t, body["queue"], 2)

	status, body = doJSON(t, app, "POST", "/api/v1/receiving/reset", "dock-1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dock-1", body["session_id"])

	status, body = doJSON(t, app, "GET", "/api/v1/receiving/queue", "dock-1", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "awaiting_po", body["state"])
	assert.Nil(t, body["current_po"])
}

func TestTurnRejectsBadRequests(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	testCases := []struct {
		name   string
		path   string
		method string
		body   string
		status int
		code   string
	}{
		{"missing transcript", "/api/v1/receiving/turn", "POST", `{"locale":"en"}`, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed body", "/api/v1/receiving/turn", "POST", `{"transcript":`, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown locale", "/api/v1/receiving/turn", "POST", `{"transcript":"PO100","locale":"fr-FR"}`, fiber.StatusBadRequest, "INVALID_LOCALE"},
		{"unknown session", "/api/v1/receiving/queue", "GET", "", fiber.StatusNotFound, "SESSION_NOT_FOUND"},
		{"no audio yet", "/api/v1/receiving/audio", "GET", "", fiber.StatusNotFound, "AUDIO_NOT_FOUND"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, app, tc.method, tc.path, "fresh-"+tc.name, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
		})
	}
}

func TestUploadAudioSpeaksPrompt(t *testing.T) {
	t.Parallel()

	app, sp := newTestApp(t)
	sp.On("Recognize", mock.Anything, mock.Anything, "turn.webm").
		Return(speech.Recognition{Transcript: "PO100", Locale: entity.LocaleEnglish}).Once()
	sp.On("Synthesize", mock.Anything, mock.Anything, entity.LocaleEnglish).
		Return([]byte("ID3-prompt"), nil).Once()

	body, contentType := audioUpload(t, "turn.webm", "audio/webm", []byte("RIFF...."))
	req := httptest.NewRequest("POST", "/api/v1/receiving/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(receiving.SessionHeader, "dock-2")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var turn map[string]interface{}
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&turn))
	assert.Equal(t, "PO100", turn["transcript"])
	assert.Equal(t, "/api/v1/receiving/audio", turn["audio_url"])

	req = httptest.NewRequest("GET", "/api/v1/receiving/audio", nil)
	req.Header.Set(receiving.SessionHeader, "dock-2")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/mpeg", resp.Header.Get("Content-Type"))

	audio, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ID3-prompt", string(audio))

	sp.AssertExpectations(t)
}

func TestUploadRejectsNonAudio(t *testing.T) {
	t.Parallel()

	app, sp := newTestApp(t)

	body, contentType := audioUpload(t, "notes.txt", "text/plain", []byte("PO100"))
	req := httptest.NewRequest("POST", "/api/v1/receiving/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/receiving/upload", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	sp.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminQueueOverrides(t *testing.T) {
	t.Setenv(middleware.AccessTokenSecret, "s3cret")

	app, _ := newTestApp(t)
	token, _, err := jwtPkg.Sign(map[string]interface{}{"id": "sup-1", "role": entity.RoleAdmin}, time.Hour, middleware.AccessTokenSecret)
	require.NoError(t, err)
	auth := []string{"Authorization", "Bearer " + token}

	status, _ := doJSON(t, app, "POST", "/api/v1/receiving/admin/queue", "dock-3", `{"po_number":"PO100"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := doJSON(t, app, "POST", "/api/v1/receiving/admin/queue", "dock-3", `{"po_number":"PO999"}`, auth...)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "PO_NOT_FOUND", body["code"])

	status, body = doJSON(t, app, "DELETE", "/api/v1/receiving/admin/queue/head", "dock-3", "", auth...)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "QUEUE_EMPTY", body["code"])

	status, body = doJSON(t, app, "POST", "/api/v1/receiving/admin/queue", "dock-3", `{"po_number":"PO100"}`, auth...)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PO100", body["po_number"])
	assert.Len(t, body["queue"], 2)
	assert.Equal(t, "awaiting_arrival", body["state"])

	status, body = doJSON(t, app, "DELETE", "/api/v1/receiving/admin/queue/head", "dock-3", "", auth...)
	require.Equal(t, fiber.StatusOK, status)
	removed, ok := body["removed"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Widget", removed["name"])
	assert.Len(t, body["remaining"], 1)
}

func TestTurnWebSocket(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	url := "ws://" + ln.Addr().String() + "/api/v1/receiving/ws"
	header := http.Header{}
	header.Set(receiving.SessionHeader, "dock-ws")

	conn, _, err := gorilla.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(receiving.TurnRequest{Transcript: "PO100"}))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "PO100", reply["po_number"])
	assert.Equal(t, true, reply["show_confirm_options"])

	require.NoError(t, conn.WriteJSON(receiving.TurnRequest{Transcript: "yes"}))
	reply = nil
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "awaiting_arrival", reply["state"])

	require.NoError(t, conn.WriteJSON(receiving.TurnRequest{Transcript: "PO100", Locale: "fr"}))
	reply = nil
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Contains(t, reply["error"], "locale")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/receiving/ws", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestTurnWebSocketIsRateLimited(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.001")
	t.Setenv("RATE_LIMIT_BURST", "1")

	app, _ := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := gorilla.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/receiving/ws?session=dock-rl", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(receiving.TurnRequest{Transcript: "PO100"}))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "PO100", reply["po_number"])

	require.NoError(t, conn.WriteJSON(receiving.TurnRequest{Transcript: "yes"}))
	reply = nil
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "RATE_LIMITED", reply["code"])

	status, snapshot := doJSON(t, app, "GET", "/api/v1/receiving/queue", "dock-rl", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "awaiting_po", snapshot["state"])
	assert.Equal(t, "PO100", snapshot["pending_po"])
}
