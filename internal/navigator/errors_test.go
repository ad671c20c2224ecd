package navigator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationError_WrapsCause(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := &NavigationError{Message: "search submission failed", Cause: cause}

	assert.Contains(t, err.Error(), "search submission failed")
	assert.ErrorIs(t, err, cause)
}

func TestNavigationError_WithoutCause(t *testing.T) {
	err := &NavigationError{Message: "page advance click failed on both paths"}

	assert.Equal(t, "navigation error: page advance click failed on both paths", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestSiteError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("harvest run failed: %w", &SiteError{Marker: "エラーが発生しました"})

	var siteErr *SiteError
	require.ErrorAs(t, err, &siteErr)
	assert.Equal(t, "エラーが発生しました", siteErr.Marker)
}
