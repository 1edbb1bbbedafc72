package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		want  string
		retry bool
	}{
		{name: "trimmed", in: Input{Text: "  Анна "}, want: "Анна"},
		{name: "too short", in: Input{Text: "А"}, retry: true},
		{name: "too long", in: Input{Text: "Слишком длинное имя клиента"}, retry: true},
		{name: "skip on required step", in: Input{Text: "Пропустить", Skip: true}, retry: true},
	}

	validate := Text(2, 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := validate(t.Context(), tt.in)
			if tt.retry {
				_, ok := IsRetry(err)
				assert.True(t, ok, "expected retry, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestOptionalText_SkipIsEmpty(t *testing.T) {
	v, err := OptionalText(500)(t.Context(), Input{Text: "Пропустить", Skip: true})
	require.NoError(t, err)
	assert.Equal(t, "", v)
}
