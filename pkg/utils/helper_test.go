package utils_test

import (
	"testing"

	"seatmap-client/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	path, err := utils.ResolvePath("/seats/{eventid}/{venueid}", map[string]string{"eventid": "1", "venueid": "2"})
	require.NoError(t, err)
	assert.Equal(t, "/seats/1/2", path)

	path, err = utils.ResolvePath("/seats/locks", nil)
	require.NoError(t, err)
	assert.Equal(t, "/seats/locks", path)

	_, err = utils.ResolvePath("/seats/{eventid}/{venueid}", map[string]string{"eventid": "1"})
	assert.ErrorContains(t, err, "venueid")
}

func TestParseID(t *testing.T) {
	id, err := utils.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := utils.ParseID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PUSH_TRANSPORT", "nats")

	config, err := utils.LoadConfig("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8090", config.App.Port)
	assert.Equal(t, "/seats/{eventid}/{venueid}", config.Booking.SeatsPath)
	assert.Equal(t, "seat:events:*_*", config.Push.MessagePattern)
	assert.Equal(t, "nats", config.Push.Transport)
	assert.False(t, config.Storage.PersistGuest)
	assert.False(t, config.SeatMap.ReleaseOnFirstTeardown)
}
