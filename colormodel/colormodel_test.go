package colormodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantblack/pixelfish/colormodel"
	"github.com/vantblack/pixelfish/component"
	"github.com/vantblack/pixelfish/internal/node"
)

func setup(t *testing.T) (*colormodel.Registry, *component.Component, *component.Component, *component.Component) {
	t.Helper()
	alloc := &node.Allocator{}
	comps := component.NewRegistry(alloc)
	r, g, b := mustReg(t, comps, "R"), mustReg(t, comps, "G"), mustReg(t, comps, "B")
	return colormodel.NewRegistry(alloc), r, g, b
}

func mustReg(t *testing.T, r *component.Registry, name string) *component.Component {
	t.Helper()
	c, err := r.Register(name)
	require.NoError(t, err)
	return c
}

func TestRegisterAndAccessors(t *testing.T) {
	models, r, g, b := setup(t)

	m, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)

	assert.Equal(t, 3, m.NComponents())
	assert.Equal(t, []*component.Component{r, g, b}, m.Components())
	assert.Equal(t, "", m.Space())
	assert.Equal(t, colormodel.Flags{}, m.Flags())
}

func TestComponentsReturnsDefensiveCopy(t *testing.T) {
	models, r, g, b := setup(t)
	m, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)

	cs := m.Components()
	cs[0] = nil

	assert.NotNil(t, m.Components()[0])
}

func TestRegisterRejectsEmptyOrDuplicateComponents(t *testing.T) {
	models, r, g, _ := setup(t)

	_, err := models.Register("Empty", nil, colormodel.Flags{}, "")
	assert.Error(t, err)

	_, err = models.Register("DupChan", []*component.Component{r, r, g}, colormodel.Flags{}, "")
	assert.Error(t, err)
}

func TestRegisterIdempotentOnMatchingAttrs(t *testing.T) {
	models, r, g, b := setup(t)

	a, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)
	bm, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)
	assert.Same(t, a, bm)
}

func TestRegisterIncompatibleOnFlagsOrSpaceMismatch(t *testing.T) {
	models, r, g, b := setup(t)

	_, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)

	_, err = models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{Perceptual: true}, "")
	assert.Error(t, err)

	_, err = models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "sRGB")
	assert.Error(t, err)
}

func TestLookupExistsIterateNames(t *testing.T) {
	models, r, g, b := setup(t)
	_, err := models.Register("RGB", []*component.Component{r, g, b}, colormodel.Flags{}, "")
	require.NoError(t, err)

	got, ok := models.Lookup("RGB")
	require.True(t, ok)
	assert.Equal(t, "RGB", got.Name())

	assert.True(t, models.Exists("RGB"))
	assert.Len(t, models.Iterate(), 1)
	assert.Equal(t, []string{"RGB"}, models.Names())
}
