package opener

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"https://acme.example/docs", true},
		{"HTTP://acme.example", true},
		{"file:///etc/passwd", false},
		{"javascript:alert(1)", false},
		{"/relative/path", false},
		{"https://", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := Validate(tt.url)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	var opened []string
	b := NewWithFunc(func(u string) error {
		opened = append(opened, u)
		return nil
	}, nil)

	require.NoError(t, b.Open("https://acme.example"))
	assert.ErrorIs(t, b.Open("file:///tmp/x"), ErrUnsupportedURL)
	assert.Equal(t, []string{"https://acme.example"}, opened)
}

func TestOpenFailure(t *testing.T) {
	b := NewWithFunc(func(string) error { return errors.New("no browser") }, nil)

	err := b.Open("https://acme.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no browser")
}
