package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/skycast-bot/internal/models"
)

func TestLocation_Validate(t *testing.T) {
	testCases := []struct {
		name     string
		location models.Location
		wantErr  bool
	}{
		{name: "city and country", location: "Voronezh, Russia", wantErr: false},
		{name: "multi word city", location: "New York, USA", wantErr: false},
		{name: "hyphenated city", location: "Rostov-on-Don, Russia", wantErr: false},
		{name: "no country", location: "voronezh", wantErr: true},
		{name: "lowercase city", location: "voronezh, Russia", wantErr: true},
		{name: "wrong separator", location: "Voronezh - Russia", wantErr: true},
		{name: "comma without space", location: "Voronezh,Russia", wantErr: true},
		{name: "trailing dot", location: "Voronezh, Russia.", wantErr: true},
		{name: "empty city segment", location: ", Russia", wantErr: true},
		{name: "two commas", location: "Voronezh, Oblast, Russia", wantErr: true},
		{name: "empty", location: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.location.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, models.ErrMalformedLocation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
