package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{18248, "18,248"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.n))
	}
}

func TestDownloads(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{500, "500"},
		{999999, "999,999"},
		{1500000, "~1.5M"},
		{2000000000, "~2.0B"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Downloads(tt.n))
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "250ms", Duration(250*time.Millisecond))
	assert.Equal(t, "1.5s", Duration(1500*time.Millisecond))
}
