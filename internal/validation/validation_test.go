package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("alice_01"))
	require.Error(t, ValidateUsername("ab"))
	require.Error(t, ValidateUsername(strings.Repeat("a", 31)))
	require.Error(t, ValidateUsername("alice smith"))
	require.Error(t, ValidateUsername("alice@corp"))
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("alice@example.com"))
	require.Error(t, ValidateEmail(""))
	require.Error(t, ValidateEmail("not-an-email"))
	require.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("longenough1"))
	require.Error(t, ValidatePassword("short"))
	require.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateCompanyName(t *testing.T) {
	require.NoError(t, ValidateCompanyName("  Acme  "))
	require.Error(t, ValidateCompanyName("A"))
	require.Error(t, ValidateCompanyName(strings.Repeat("c", 101)))
}

func TestVideoConstraints_Type(t *testing.T) {
	c := NewVideoConstraints([]string{"mp4", ".mov", "MKV"}, 500<<20)

	require.NoError(t, c.ValidateType("demo.mp4", "video/mp4"))
	require.NoError(t, c.ValidateType("DEMO.MOV", ""))
	require.NoError(t, c.ValidateType("clip.mkv", "video/x-matroska"))

	require.ErrorIs(t, c.ValidateType("notes.pdf", "application/pdf"), ErrUnsupportedMediaType)
	require.ErrorIs(t, c.ValidateType("noextension", ""), ErrUnsupportedMediaType)
	// Right extension but declared as a non-video type
	require.ErrorIs(t, c.ValidateType("demo.mp4", "application/octet-stream"), ErrUnsupportedMediaType)
}

func TestVideoConstraints_Size(t *testing.T) {
	c := NewVideoConstraints([]string{"mp4"}, 500<<20)

	require.NoError(t, c.ValidateSize(10<<20))
	require.NoError(t, c.ValidateSize(-1)) // unknown, enforced during write
	require.ErrorIs(t, c.ValidateSize(600<<20), ErrPayloadTooLarge)
}
