//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/harvest/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	t.Run("recycles after max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(3))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		require.NotNil(t, first)

		manager.IncrementPageCount()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		second := manager.Browser()
		require.NotNil(t, second)
		assert.NotSame(t, first, second)
		assert.Equal(t, int64(1), manager.Recycled())
	})

	t.Run("keeps browser below max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.Browser()
		manager.IncrementPageCount()
		manager.IncrementPageCount()

		assert.Same(t, first, manager.Browser())
		assert.Zero(t, manager.Recycled())
	})

	t.Run("returns nil after close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NoError(t, manager.Close())
		require.NoError(t, manager.Close())

		assert.Nil(t, manager.Browser())
		assert.Zero(t, manager.LauncherPID())
	})
}
