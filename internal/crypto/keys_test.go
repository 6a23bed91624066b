package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	first, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, first, SaltSize)

	second, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "соли не должны совпадать")
}

func TestPasswordKey(t *testing.T) {
	salt := []byte("0123456789abcdef")

	tests := []struct {
		name       string
		password   string
		iterations int
		protocol   string
		wantErr    string
	}{
		{name: "s2k", password: "hunter2", iterations: 1000, protocol: ProtocolS2K},
		{name: "s2k_fo", password: "hunter2", iterations: 1000, protocol: ProtocolS2KFO},
		{name: "empty password", password: "", iterations: 1000, protocol: ProtocolS2K, wantErr: "password cannot be empty"},
		{name: "zero iterations", password: "hunter2", iterations: 0, protocol: ProtocolS2K, wantErr: "iterations must be positive"},
		{name: "unknown protocol", password: "hunter2", iterations: 1000, protocol: "s2k_x", wantErr: "unsupported password protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := PasswordKey(tt.password, salt, tt.iterations, tt.protocol)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, PasswordKeyLen)

			again, err := PasswordKey(tt.password, salt, tt.iterations, tt.protocol)
			require.NoError(t, err)
			assert.Equal(t, key, again, "вывод ключа должен быть детерминированным")
		})
	}
}

func TestPasswordKey_ProtocolsDiffer(t *testing.T) {
	salt := []byte("0123456789abcdef")

	s2k, err := PasswordKey("hunter2", salt, 100, ProtocolS2K)
	require.NoError(t, err)
	fo, err := PasswordKey("hunter2", salt, 100, ProtocolS2KFO)
	require.NoError(t, err)

	assert.NotEqual(t, s2k, fo)
}
