package location_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
	"github.com/Nazarious-ucu/skycast-bot/internal/services/location"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		reply   string
		want    models.Location
		wantErr error
	}{
		{
			name:  "plain reply",
			raw:   "Поворино",
			reply: "Povorino, Russia",
			want:  "Povorino, Russia",
		},
		{
			name:  "reply wrapped in quotes and whitespace",
			raw:   "нью йорк",
			reply: "  \"New York, USA\"\n",
			want:  "New York, USA",
		},
		{
			name:  "trailing period stripped",
			raw:   "Воронеж",
			reply: "Voronezh, Russia.",
			want:  "Voronezh, Russia",
		},
		{
			name:  "already canonical input stays unchanged",
			raw:   "Voronezh, Russia",
			reply: "Voronezh, Russia",
			want:  "Voronezh, Russia",
		},
		{
			name:    "missing country",
			raw:     "воронеж",
			reply:   "voronezh",
			wantErr: models.ErrMalformedLocation,
		},
		{
			name:    "wrong separator",
			raw:     "воронеж",
			reply:   "Voronezh - Russia",
			wantErr: models.ErrMalformedLocation,
		},
		{
			name:    "chatty model",
			raw:     "урюпинск",
			reply:   "Sure! The city is Uryupinsk, Russia, hope that helps",
			wantErr: models.ErrMalformedLocation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockCompleter{}
			m.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
				return len(prompt) > 0
			})).Return(tc.reply, nil).Once()

			t.Cleanup(func() {
				m.AssertExpectations(t)
			})

			n := location.NewNormalizer(m, zerolog.Nop())

			loc, err := n.Normalize(context.Background(), tc.raw)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, loc)
		})
	}
}

func TestNormalize_CompletionError(t *testing.T) {
	m := &mockCompleter{}
	m.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("connection refused")).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	n := location.NewNormalizer(m, zerolog.Nop())

	_, err := n.Normalize(context.Background(), "Воронеж")
	assert.ErrorIs(t, err, location.ErrNormalization)
}

func TestNormalize_PromptContainsCity(t *testing.T) {
	m := &mockCompleter{}
	var gotPrompt string
	m.On("Complete", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		gotPrompt, _ = args.Get(1).(string)
	}).Return("Povorino, Russia", nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	n := location.NewNormalizer(m, zerolog.Nop())

	_, err := n.Normalize(context.Background(), "Поворино")
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Поворино")
	assert.Contains(t, gotPrompt, "City, Country")
}
