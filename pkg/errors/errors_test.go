package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatsSentinelAndMessage(t *testing.T) {
	err := Newf(ErrInvalidArgument, "document id %d already exists", 7)
	assert.Equal(t, "invalid argument: document id 7 already exists", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrOutOfRange))
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid argument", New(ErrInvalidArgument, "bad"), CodeInvalidArgument},
		{"out of range", New(ErrOutOfRange, "bad"), CodeOutOfRange},
		{"wrapped", fmt.Errorf("loading: %w", New(ErrOutOfRange, "bad")), CodeOutOfRange},
		{"other", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsInvalidArgument(New(ErrInvalidArgument, "x")))
	assert.True(t, IsOutOfRange(New(ErrOutOfRange, "x")))
	assert.False(t, IsOutOfRange(nil))
}
