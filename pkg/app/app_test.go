package app_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperqa-io/paperqa/pkg/app"
)

// stubOptions is a minimal CliOptions implementation.
type stubOptions struct {
	address string
}

func (o *stubOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.address, "stub.address", "", "Stub address")
}

func (o *stubOptions) Complete() error { return nil }

func (o *stubOptions) Validate() error { return nil }

var _ app.CliOptions = (*stubOptions)(nil)

func TestNewAppBuildsCommand(t *testing.T) {
	a := app.NewApp(
		app.WithName("testapp"),
		app.WithShortDescription("short"),
		app.WithDescription("long description"),
	)

	cmd := a.Command()
	require.NotNil(t, cmd)
	assert.Equal(t, "testapp", cmd.Use)
	assert.Equal(t, "short", cmd.Short)
	assert.Equal(t, "long description", cmd.Long)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestNewAppRegistersOptionFlags(t *testing.T) {
	a := app.NewApp(
		app.WithName("testapp"),
		app.WithOptions(&stubOptions{}),
	)

	assert.NotNil(t, a.Command().Flags().Lookup("stub.address"))
}

func TestNewAppNoConfig(t *testing.T) {
	a := app.NewApp(
		app.WithName("testapp"),
		app.WithNoConfig(),
		app.WithNoVersion(),
	)

	assert.Nil(t, a.Command().PersistentFlags().Lookup("config"))
}

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, app.GetVersion())
}
