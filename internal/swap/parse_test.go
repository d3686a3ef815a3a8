package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	req, err := ParseCommand("swap 1 orca to sol")
	require.NoError(t, err)
	assert.Equal(t, Request{Amount: "1", From: "ORCA", To: "SOL"}, req)

	req, err = ParseCommand("  2.75   USDC TO ORCA ")
	require.NoError(t, err)
	assert.Equal(t, Request{Amount: "2.75", From: "USDC", To: "ORCA"}, req)
}

func TestParseCommandInvalid(t *testing.T) {
	for _, in := range []string{"", "swap SOL to USDC", "swap 1 SOL USDC", "swap -1 SOL to USDC"} {
		_, err := ParseCommand(in)
		assert.Errorf(t, err, "expected %q to be rejected", in)
	}
}
