package keyringcmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dafonte/formrelay/pkg/credentials"
	"github.com/dafonte/formrelay/pkg/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := NewRootCommand(Config{OutputWriter: buf, Store: credentials.NewKeyringStore()})
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSet_StoresPasswordUnderSender(t *testing.T) {
	keyring.MockInit()

	out, err := run(t, "set", "--email", "you@gmail.com", "--password", "app-password")
	require.NoError(t, err)
	assert.Contains(t, out, "Password saved to keyring for you@gmail.com")

	secret, err := keyring.Get(credentials.ServiceName, "you@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "app-password", secret)
}

func TestSet_StoresAPIKey(t *testing.T) {
	keyring.MockInit()

	out, err := run(t, "set", "--api-key", "re_123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Email API key saved")

	secret, err := keyring.Get(credentials.ServiceName, credentials.APIKeyAccount)
	require.NoError(t, err)
	assert.Equal(t, "re_123456", secret)
}

func TestSet_Validation(t *testing.T) {
	keyring.MockInit()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing email", args: []string{"set", "--password", "pw"}, want: "--email is required"},
		{name: "missing password", args: []string{"set", "--email", "a@b.com"}, want: "--password is required"},
		{name: "api key with email", args: []string{"set", "--api-key", "k", "--email", "a@b.com"}, want: "cannot be combined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSet_BackendFailure(t *testing.T) {
	keyring.MockInitWithError(keyring.ErrUnsupportedPlatform)

	_, err := run(t, "set", "--email", "a@b.com", "--password", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, credentials.ErrStoreUnavailable)
}

func TestGet(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(credentials.ServiceName, "a@b.com", "supersecret"))

	out, err := run(t, "get", "--email", "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, out, "su****et")
	assert.NotContains(t, out, "supersecret")

	out, err = run(t, "get", "--email", "a@b.com", "--reveal")
	require.NoError(t, err)
	assert.Equal(t, "supersecret\n", out)

	_, err = run(t, "get", "--email", "other@b.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no secret stored for other@b.com")

	_, err = run(t, "get", "--email", "a@b.com", "--resend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestDelete(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(credentials.ServiceName, credentials.APIKeyAccount, "re_1"))

	out, err := run(t, "delete", "--resend")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret removed from keyring for email API key")

	_, err = keyring.Get(credentials.ServiceName, credentials.APIKeyAccount)
	assert.ErrorIs(t, err, keyring.ErrNotFound)

	out, err = run(t, "delete", "--resend")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing stored for email API key")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask(""))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "ab****ef", Mask("abcdef"))
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version.GetBuildInfo().String())
}
