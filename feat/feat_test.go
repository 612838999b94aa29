package feat

import (
	"os"
	"testing"

	"github.com/bbredesen/vk-dgen/def"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testExceptions = `{
	"platform": {
		"!comment": "ignored",
		"!android": { "d:imports": ["android.native_window"] },
		"xlib": { "d:imports": ["X11.Xlib"] },
		"wayland": { "d:version": "WaylandSupport", "d:imports": ["wayland.native.client"] },
		"mir": { "protect": "VK_USE_PLATFORM_MIR_KHR", "d:imports": ["mir_toolkit.client_types"] }
	}
}`

func readTestCatalog(t *testing.T) (*def.Registry, *Catalog) {
	t.Helper()
	f, err := os.Open("../testdata/vk.xml")
	require.NoError(t, err)
	defer f.Close()

	reg, err := def.ReadRegistry(f, "vulkan")
	require.NoError(t, err)
	return reg, ReadCatalog(reg, gjson.Parse(testExceptions))
}

func featureNames(fs []*Feature) []string {
	rval := make([]string, 0, len(fs))
	for _, f := range fs {
		rval = append(rval, f.Name())
	}
	return rval
}

func TestReadCatalog_Features(t *testing.T) {
	_, cat := readTestCatalog(t)

	require.Len(t, cat.Features, 3)
	v10 := cat.Features[0]
	assert.Equal(t, "VK_VERSION_1_0", v10.Name())
	assert.Equal(t, "1.0", v10.Version())
	assert.False(t, v10.IsExtension())
	assert.Contains(t, v10.RequiredTypes(), "VkStructureType")
	assert.Contains(t, v10.RequiredCommands(), "vkCreateInstance")
	assert.NotContains(t, v10.RequiredCommands(), "vkGetFaultData", "require blocks of another api are skipped")
	assert.Contains(t, v10.RequiredEnums(), "VK_UUID_SIZE")
}

func TestReadCatalog_Extensions(t *testing.T) {
	_, cat := readTestCatalog(t)

	require.Len(t, cat.Extensions, 6)
	xlib := cat.Extensions[1]
	assert.Equal(t, "VK_KHR_xlib_surface", xlib.Name())
	assert.Equal(t, 5, xlib.Number())
	assert.Equal(t, "xlib", xlib.PlatformName())
	assert.Equal(t, "VK_USE_PLATFORM_XLIB_KHR", xlib.Protect(), "protect is inherited from the platform")
	require.NotNil(t, xlib.Platform())
	assert.Equal(t, []string{"X11.Xlib"}, xlib.Platform().DImports)
	assert.True(t, xlib.IsSupported("vulkan"))
	assert.False(t, xlib.IsSupported("vulkansc"))

	disabled := cat.Extensions[5]
	assert.False(t, disabled.IsSupported("vulkan"))
}

func TestReadCatalog_Platforms(t *testing.T) {
	_, cat := readTestCatalog(t)

	xlib := cat.Platforms["xlib"]
	require.NotNil(t, xlib)
	assert.Equal(t, "VK_USE_PLATFORM_XLIB_KHR", xlib.Version())
	assert.Equal(t, []string{"X11.Xlib"}, xlib.DImports)

	wayland := cat.Platforms["wayland"]
	require.NotNil(t, wayland)
	assert.Equal(t, "VK_USE_PLATFORM_WAYLAND_KHR", wayland.Protect())
	assert.Equal(t, "WaylandSupport", wayland.Version())

	mir := cat.Platforms["mir"]
	require.NotNil(t, mir, "platforms only listed in exceptions are created")
	assert.Equal(t, "VK_USE_PLATFORM_MIR_KHR", mir.Protect())
	assert.Equal(t, []string{"mir_toolkit.client_types"}, mir.DImports)

	assert.Nil(t, cat.Platforms["!comment"])
	assert.Nil(t, cat.Platforms["!android"], "keys starting with ! are comments")
}

func TestReadCatalog_InjectsExtensionEnums(t *testing.T) {
	reg, _ := readTestCatalog(t)

	st := reg.Groups["VkStructureType"]
	require.NotNil(t, st)

	bind := st.Value("VK_STRUCTURE_TYPE_BIND_BUFFER_MEMORY_INFO")
	require.NotNil(t, bind)
	assert.Equal(t, "VK_VERSION_1_1", bind.Source)
	num, _, ok := bind.Value(true)
	assert.True(t, ok)
	assert.Equal(t, int64(1000157000), num)

	xlib := st.Value("VK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR")
	require.NotNil(t, xlib)
	assert.Equal(t, "5", xlib.ExtNumber, "offset enums take the number of their extension")
	num, _, _ = xlib.Value(true)
	assert.Equal(t, int64(1000004000), num)

	lost := reg.Groups["VkResult"].Value("VK_ERROR_SURFACE_LOST_KHR")
	require.NotNil(t, lost)
	num, _, _ = lost.Value(true)
	assert.Equal(t, int64(-1000000000), num)

	protected := reg.Groups["VkQueueFlagBits"].Value("VK_QUEUE_PROTECTED_BIT")
	require.NotNil(t, protected)
	_, str, _ := protected.Value(true)
	assert.Equal(t, "0x00000010", str)

	specVersion := reg.Enums["VK_KHR_SURFACE_SPEC_VERSION"]
	require.NotNil(t, specVersion)
	assert.Equal(t, "25", specVersion.RawValue)
	assert.Equal(t, "VK_KHR_surface", specVersion.Source)
}

func TestSelection_DefaultExtensions(t *testing.T) {
	_, cat := readTestCatalog(t)

	sel := &Selection{API: "vulkan", DefaultExtensions: "vulkan"}
	assert.Equal(t, []string{
		"VK_VERSION_1_0", "VK_VERSION_1_1", "VK_VERSION_1_3",
		"VK_KHR_surface", "VK_KHR_xlib_surface", "VK_KHR_wayland_surface",
		"VK_KHR_acceleration_structure", "VK_KHR_synchronization2",
	}, featureNames(cat.Select(sel)))
}

func TestSelection_AddAndRemove(t *testing.T) {
	_, cat := readTestCatalog(t)

	add, err := CompileNamePattern("VK_KHR_surface|VK_EXT_reserved_.*")
	require.NoError(t, err)
	remove, err := CompileNamePattern("VK_KHR_surface")
	require.NoError(t, err)

	sel := &Selection{API: "vulkan", AddExtensions: add, RemoveExtensions: remove}
	assert.Equal(t, []string{
		"VK_VERSION_1_0", "VK_VERSION_1_1", "VK_VERSION_1_3", "VK_EXT_reserved_999",
	}, featureNames(cat.Select(sel)))
}

func TestSelection_OrderBySortOrder(t *testing.T) {
	_, cat := readTestCatalog(t)
	cat.Extensions[4].sortOrder = -1

	sel := &Selection{API: "vulkan", DefaultExtensions: "vulkan"}
	names := featureNames(cat.Select(sel))
	assert.Equal(t, "VK_KHR_synchronization2", names[3])
}

func TestCompileNamePattern(t *testing.T) {
	rx, err := CompileNamePattern("")
	assert.NoError(t, err)
	assert.Nil(t, rx)

	rx, err = CompileNamePattern("VK_KHR_.*surface")
	require.NoError(t, err)
	assert.True(t, rx.MatchString("VK_KHR_xlib_surface"))
	assert.False(t, rx.MatchString("VK_KHR_surface_protected_capabilities"), "patterns match whole names")

	_, err = CompileNamePattern("VK_(")
	assert.Error(t, err)
}

func TestSelection_Emits(t *testing.T) {
	emit, err := CompileNamePattern("VK_VERSION_1_1")
	require.NoError(t, err)
	sel := &Selection{EmitFeatures: emit}

	assert.False(t, sel.emits(NewFeature("VK_VERSION_1_0")))
	assert.True(t, sel.emits(NewFeature("VK_VERSION_1_1")))

	ext := NewFeature("VK_KHR_surface")
	ext.isExtension = true
	assert.True(t, sel.emits(ext))

	assert.True(t, (&Selection{}).emits(NewFeature("VK_VERSION_1_0")))
}
