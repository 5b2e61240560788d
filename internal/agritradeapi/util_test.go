package agritradeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 43.88, RoundFloat(43.875, 2))
	assert.Equal(t, 10.0, RoundFloat(10.004, 2))
	assert.Equal(t, -2.5, RoundFloat(-2.499, 1))
}

func TestFloorFloatNeverRoundsUp(t *testing.T) {
	assert.Equal(t, 33.33, FloorFloat(33.339, 2))
	assert.Equal(t, 33.33, FloorFloat(100.0/3.0, 2))
	assert.Equal(t, 0.0, FloorFloat(0.009, 2))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "100\\.50", EscapeMarkdownV2("100.50"))
	assert.Equal(t, "\\[link\\]\\(url\\)", EscapeMarkdownV2("[link](url)"))
	assert.Equal(t, "plain text", EscapeMarkdownV2("plain text"))
}
