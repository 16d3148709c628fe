package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/merklevote/merklevote-go/pkg/merkle"
)

func TestParseIdentifierHex(t *testing.T) {
	want := common.HexToAddress("0x69A78592B1C0d6699eb30ea05A1b1e0420E5E468")

	testCases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"checksummed", "0x69A78592B1C0d6699eb30ea05A1b1e0420E5E468", true},
		{"lowercase", "0x69a78592b1c0d6699eb30ea05a1b1e0420e5e468", true},
		{"no prefix", "69a78592b1c0d6699eb30ea05a1b1e0420e5e468", true},
		{"surrounding whitespace", "  0x69a78592b1c0d6699eb30ea05a1b1e0420e5e468\n", true},
		{"too short", "0x69a7", false},
		{"too long", "0x69a78592b1c0d6699eb30ea05a1b1e0420e5e46800", false},
		{"not hex", "0xzz", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseIdentifierHex(tc.input)
			if !tc.ok {
				require.ErrorIs(t, err, merkle.ErrInvalidIdentifier)
				return
			}
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestParseIdentifier(t *testing.T) {
	_, err := ParseIdentifier(make([]byte, 19))
	require.ErrorIs(t, err, merkle.ErrInvalidIdentifier)

	a, err := ParseIdentifier(make([]byte, 20))
	require.NoError(t, err)
	require.Equal(t, common.Address{}, a)
}
