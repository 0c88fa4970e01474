package task

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSnapshot_Format(t *testing.T) {
	t.Parallel()

	created := time.UnixMilli(1700000000123)
	data, err := EncodeSnapshot([]Task{
		{ID: "b", Text: "Walk dog", CreatedAt: created},
		{ID: "a", Text: "Buy milk", Done: true},
	})
	require.NoError(t, err)

	want := `[
  {
    "id": "b",
    "text": "Walk dog",
    "done": false,
    "createdAt": 1700000000123
  },
  {
    "id": "a",
    "text": "Buy milk",
    "done": true
  }
]
`
	assert.Equal(t, want, string(data))
}

func TestEncodeSnapshot_Empty(t *testing.T) {
	t.Parallel()

	data, err := EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestDecodeSnapshot_Compatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Task
	}{
		{
			name:  "current schema",
			input: `[{"id":"x","text":"Buy milk","done":true,"createdAt":1700000000000}]`,
			want:  []Task{{ID: "x", Text: "Buy milk", Done: true, CreatedAt: time.UnixMilli(1700000000000)}},
		},
		{
			name:  "legacy schema without createdAt",
			input: `[{"id":"x","text":"Buy milk","done":false}]`,
			want:  []Task{{ID: "x", Text: "Buy milk"}},
		},
		{
			name:  "null createdAt",
			input: `[{"id":"x","text":"Buy milk","done":false,"createdAt":null}]`,
			want:  []Task{{ID: "x", Text: "Buy milk"}},
		},
		{
			name:  "fractional createdAt",
			input: `[{"id":"x","text":"t","done":false,"createdAt":1700000000000.5}]`,
			want:  []Task{{ID: "x", Text: "t", CreatedAt: time.UnixMilli(1700000000000)}},
		},
		{
			name:  "extra fields tolerated",
			input: `[{"id":"x","text":"t","done":false,"priority":3}]`,
			want:  []Task{{ID: "x", Text: "t"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []Task{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeSnapshot([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].ID, got[i].ID)
				assert.Equal(t, tt.want[i].Text, got[i].Text)
				assert.Equal(t, tt.want[i].Done, got[i].Done)
				assert.True(t, tt.want[i].CreatedAt.Equal(got[i].CreatedAt), "createdAt %v != %v", got[i].CreatedAt, tt.want[i].CreatedAt)
			}
		})
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"invalid json":     `[{"id":`,
		"not an array":     `{"id":"x","text":"t","done":false}`,
		"null":             `null`,
		"missing done":     `[{"id":"x","text":"t"}]`,
		"wrong done type":  `[{"id":"x","text":"t","done":"yes"}]`,
		"empty id":         `[{"id":"","text":"t","done":false}]`,
		"empty text":       `[{"id":"x","text":"","done":false}]`,
		"string createdAt": `[{"id":"x","text":"t","done":false,"createdAt":"today"}]`,
		"duplicate ids":    `[{"id":"x","text":"a","done":false},{"id":"x","text":"b","done":true}]`,
		"trailing garbage": `[] []`,
		"empty input":      ``,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeSnapshot([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []Task{
		{ID: "3", Text: "Third", CreatedAt: time.UnixMilli(1700000000300)},
		{ID: "2", Text: "Second \"quoted\"", Done: true},
		{ID: "1", Text: strings.Repeat("long ", 20), CreatedAt: time.UnixMilli(1700000000100)},
	}

	data, err := EncodeSnapshot(in)
	require.NoError(t, err)
	out, err := DecodeSnapshot(data)
	require.NoError(t, err)

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Text, out[i].Text)
		assert.Equal(t, in[i].Done, out[i].Done)
		assert.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt))
	}
}
