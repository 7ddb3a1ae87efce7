package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/skycast-bot/internal/services/llm"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return &http.Response{}, args.Error(1)
	}
	return resp, args.Error(1)
}

func TestComplete_Success(t *testing.T) {
	m := &mockHTTPClient{}

	var gotReq *http.Request
	m.On("Do", mock.Anything).Run(func(args mock.Arguments) {
		gotReq, _ = args.Get(0).(*http.Request)
	}).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body: io.NopCloser(strings.NewReader(
				`{"choices": [{"message": {"role": "assistant", "content": "Povorino, Russia"}}]}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := llm.NewClient("secret-token", "test-model", "https://example.com/v1/chat/completions", m, zerolog.Nop())

	content, err := client.Complete(context.Background(), "normalize this city")
	require.NoError(t, err)
	assert.Equal(t, "Povorino, Russia", content)

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodPost, gotReq.Method)
	assert.Equal(t, "Bearer secret-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Content-Type"))

	var payload struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Model string `json:"model"`
	}
	require.NoError(t, json.NewDecoder(gotReq.Body).Decode(&payload))
	assert.Equal(t, "test-model", payload.Model)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "user", payload.Messages[0].Role)
	assert.Equal(t, "normalize this city", payload.Messages[0].Content)
}

func TestComplete_Non200Status(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusUnauthorized,
			Status:     "401 Unauthorized",
			Body:       io.NopCloser(strings.NewReader(`{"error": "Invalid token"}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := llm.NewClient("bad-token", "test-model", "", m, zerolog.Nop())

	content, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Empty(t, content)
}

func TestComplete_MalformedJSON(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices": [`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := llm.NewClient("token", "test-model", "", m, zerolog.Nop())

	_, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestComplete_EmptyChoices(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(
		&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices": []}`)),
		}, nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	client := llm.NewClient("token", "test-model", "", m, zerolog.Nop())

	_, err := client.Complete(context.Background(), "prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
