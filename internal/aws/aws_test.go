package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_getProfile(t *testing.T) {
	t.Run("Should default to the default profile", func(t *testing.T) {
		t.Setenv("AWS_PROFILE", "")
		assert.Equal(t, "default", getProfile())
	})

	t.Run("Should use AWS_PROFILE", func(t *testing.T) {
		t.Setenv("AWS_PROFILE", "multisig-ops")
		assert.Equal(t, "multisig-ops", getProfile())
	})
}
