package git

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseBranchRefLine(t *testing.T) {
	t.Run("parses a well-formed line", func(t *testing.T) {
		ref, err := parseBranchRefLine("feature/login\tabc1234\t2026-08-21T09:30:00+02:00")

		require.NoError(t, err)
		require.Equal(t, "feature/login", ref.Name)
		require.Equal(t, "abc1234", ref.Hash)
		require.Equal(t, 2026, ref.CommittedAt.Year())
		require.Equal(t, time.August, ref.CommittedAt.Month())
	})

	t.Run("branch names with dashes and slashes parse unambiguously", func(t *testing.T) {
		ref, err := parseBranchRefLine("hotfix-1/re-try\tdef5678\t2026-08-21T09:30:00Z")

		require.NoError(t, err)
		require.Equal(t, "hotfix-1/re-try", ref.Name)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		_, err := parseBranchRefLine("feature/login\tabc1234")
		require.Error(t, err)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := parseBranchRefLine("\tabc1234\t2026-08-21T09:30:00Z")
		require.Error(t, err)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, err := parseBranchRefLine("main\tabc1234\tyesterday")
		require.Error(t, err)
	})
}
