package winfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/winfilter"
)

// TestAcceptIncludeExclude is the property from spec §8.9: include
// ["Safari"], exclude ["Private"] — ("Safari","Home") passes,
// ("Safari","Private Window") does not.
func TestAcceptIncludeExclude(t *testing.T) {
	f := winfilter.New([]string{"Safari"}, []string{"Private"})

	assert.True(t, f.Accept("Safari", "Home"))
	assert.False(t, f.Accept("Safari", "Private Window"))
}

func TestAcceptEmptyIncludeAcceptsAll(t *testing.T) {
	f := winfilter.New(nil, []string{"private"})

	assert.True(t, f.Accept("Finder", "Documents"))
	assert.False(t, f.Accept("Safari", "incognito private tab"))
}

func TestAcceptIsCaseInsensitive(t *testing.T) {
	f := winfilter.New([]string{"SAFARI"}, nil)

	assert.True(t, f.Accept("safari", "home"))
}

func TestAcceptMatchesAppOrWindowName(t *testing.T) {
	f := winfilter.New([]string{"finder"}, nil)

	assert.True(t, f.Accept("Finder", "Documents"))
	assert.False(t, f.Accept("Safari", "Documents"))
}
