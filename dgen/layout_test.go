package dgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bbredesen/vk-dgen/def"
	"github.com/bbredesen/vk-dgen/feat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func readTestExceptions(t *testing.T) gjson.Result {
	t.Helper()
	data, err := os.ReadFile("../exceptions.json")
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(data))
	return gjson.ParseBytes(data)
}

func readTestCatalog(t *testing.T) (*def.Registry, *feat.Catalog) {
	t.Helper()
	f, err := os.Open("../testdata/vk.xml")
	require.NoError(t, err)
	defer f.Close()

	reg, err := def.ReadRegistry(f, "vulkan")
	require.NoError(t, err)
	return reg, feat.ReadCatalog(reg, readTestExceptions(t))
}

// generate runs the whole pipeline over the test registry and returns the
// written modules keyed by file name.
func generate(t *testing.T, opts Options) (*Generator, map[string]string) {
	t.Helper()
	reg, cat := readTestCatalog(t)
	if opts.OutDir == "" {
		opts.OutDir = t.TempDir()
	}

	g, err := NewGenerator(reg, opts, ReadExceptionsFromJSON(readTestExceptions(t)))
	require.NoError(t, err)
	require.NoError(t, feat.Traverse(reg, cat, &feat.Selection{API: "vulkan", DefaultExtensions: "vulkan"}, g))

	files := make(map[string]string, len(g.Written))
	for _, path := range g.Written {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		files[filepath.Base(path)] = string(data)
	}
	return g, files
}

func TestEndFile_DispatchLayout(t *testing.T) {
	out := t.TempDir()
	g, files := generate(t, Options{OutDir: out, NamePrefix: "Erupted", Layout: LayoutDispatch, Style: EruptedStyle()})

	assert.Equal(t, []string{
		filepath.Join(out, "erupted", "package.d"),
		filepath.Join(out, "erupted", "types.d"),
		filepath.Join(out, "erupted", "functions.d"),
	}, g.Written)
	assert.Equal(t, "module erupted;\n\npublic import erupted.types;\npublic import erupted.functions;\n", files["package.d"])
	assert.Equal(t, 8, g.Stats.Features)
}

func TestEndFile_DispatchTypes(t *testing.T) {
	_, files := generate(t, Options{NamePrefix: "Erupted", Layout: LayoutDispatch, Style: EruptedStyle()})
	types := files["types.d"]

	for _, want := range []string{
		"module erupted.types;\n",
		"enum VK_HEADER_VERSION = 250;\n",
		"\n// VK_VERSION_1_0\n",
		"enum VK_API_VERSION_1_0 = VK_MAKE_API_VERSION( 0, 1, 0, 0 );\n",
		"enum VK_HEADER_VERSION_COMPLETE = VK_MAKE_API_VERSION( 0, 1, 3, VK_HEADER_VERSION );\n",
		"alias VkBool32 = uint32_t;\n",
		"mixin( VK_DEFINE_HANDLE!q{VkInstance} );\n",
		"mixin( VK_DEFINE_NON_DISPATCHABLE_HANDLE!q{VkShaderModule} );\n",
		"\tVK_STRUCTURE_TYPE_BIND_BUFFER_MEMORY_INFO = 1000157000,\n",
		"\tVK_STRUCTURE_TYPE_XLIB_SURFACE_CREATE_INFO_KHR = 1000004000,\n",
		"\tVK_ERROR_OUT_OF_POOL_MEMORY = -1000069000,\n",
		"\tVK_ERROR_SURFACE_LOST_KHR = -1000000000,\n",
		"\tVK_QUEUE_PROTECTED_BIT = 0x00000010,\n",
		"enum VkPipelineStageFlagBits2 : ulong {\n",
		"enum VK_PIPELINE_STAGE_2_INDEX_INPUT_BIT = VkPipelineStageFlagBits2.VK_PIPELINE_STAGE_2_INDEX_INPUT_BIT;\n",
		"enum VK_MAX_PHYSICAL_DEVICE_NAME_SIZE = 256;\n",
		"enum VK_WHOLE_SIZE = (~0UL);\n",
		"enum VK_LUID_SIZE_KHR = VK_LUID_SIZE;\n",
		"\tchar[ VK_MAX_PHYSICAL_DEVICE_NAME_SIZE ]  deviceName;\n",
		"\tVkShaderModule   _module;\n",
		"\tfloat[ 4 ][ 3 ]  matrix;\n",
		"\tmixin( bitfields!( uint32_t, \"instanceCustomIndex\", 24, uint32_t, \"mask\", 8 ) );\n",
		"alias VkPipelineStageFlags2KHR = VkPipelineStageFlags2;\n",
		"alias VkPipelineStageFlagBits2KHR = VkPipelineStageFlagBits2;\n",
		"enum VK_KHR_SURFACE_SPEC_VERSION = 25;\n",
		"enum VK_KHR_SURFACE_EXTENSION_NAME = \"VK_KHR_surface\";\n",
	} {
		assert.Contains(t, types, want)
	}

	assert.NotContains(t, types, "VK_STRUCTURE_TYPE_RESERVED_999_EXT", "values of unselected extensions are filtered")
	assert.NotContains(t, types, "VK_API_VERSION =", "disabled defines are skipped")
	assert.NotContains(t, types, "ANativeWindow", "types no interface requires are not generated")
}

func TestEndFile_PlatformVersionBlocks(t *testing.T) {
	_, files := generate(t, Options{NamePrefix: "Erupted", Layout: LayoutDispatch, Style: EruptedStyle()})
	types := files["types.d"]

	assert.Contains(t, types, "\n// VK_KHR_xlib_surface\n"+
		"version( VK_USE_PLATFORM_XLIB_KHR ) {\n"+
		"\tpublic import X11.Xlib;\n"+
		"\n"+
		"\tenum VK_KHR_XLIB_SURFACE_SPEC_VERSION = 6;\n"+
		"\tenum VK_KHR_XLIB_SURFACE_EXTENSION_NAME = \"VK_KHR_xlib_surface\";\n"+
		"\n"+
		"\talias VkXlibSurfaceCreateFlagsKHR = VkFlags;\n"+
		"\n"+
		"\tstruct VkXlibSurfaceCreateInfoKHR {\n")
	assert.Contains(t, types, "\t\tVkXlibSurfaceCreateFlagsKHR  flags;\n")
	assert.Contains(t, types, "\t\tDisplay*                     dpy;\n")

	assert.Contains(t, types, "version( VK_USE_PLATFORM_WAYLAND_KHR ) {\n\tpublic import wayland.native.client;\n")
	assert.Contains(t, types, "\talias wl_surface = wl_proxy;\n")
	assert.Contains(t, types, "\t\twl_display*                     display;\n")
	assert.NotContains(t, types, "struct wl_display;")
}

func TestEndFile_DispatchFunctions(t *testing.T) {
	_, files := generate(t, Options{NamePrefix: "Erupted", Layout: LayoutDispatch, Style: EruptedStyle()})
	functions := files["functions.d"]

	for _, want := range []string{
		"module erupted.functions;\n",
		"\talias PFN_vkCreateInstance = VkResult function( const( VkInstanceCreateInfo )* pCreateInfo, VkInstance* pInstance );\n",
		"\tPFN_vkCreateInstance vkCreateInstance;\n",
		"\tvkCreateInstance = cast( typeof( vkCreateInstance )) vkGetInstanceProcAddr( null, \"vkCreateInstance\" );\n",
		"\tvkEnumeratePhysicalDevices = cast( typeof( vkEnumeratePhysicalDevices )) vkGetInstanceProcAddr( instance, \"vkEnumeratePhysicalDevices\" );\n",
		"\tvkQueueWaitIdle = cast( typeof( vkQueueWaitIdle )) vkGetInstanceProcAddr( instance, \"vkQueueWaitIdle\" );\n",
		"\tvkQueueWaitIdle = cast( typeof( vkQueueWaitIdle )) vkGetDeviceProcAddr( device, \"vkQueueWaitIdle\" );\n",
		"\t\tvkCmdWriteTimestamp2KHR = cast( typeof( vkCmdWriteTimestamp2KHR )) vkGetDeviceProcAddr( device, \"vkCmdWriteTimestamp2KHR\" );\n",
		"\tVkResult EndCommandBuffer() {\n\t\treturn vkEndCommandBuffer( this.commandBuffer );\n\t}\n",
		"\tvoid GetDeviceQueue( uint32_t queueFamilyIndex, uint32_t queueIndex, VkQueue* pQueue ) {\n" +
			"\t\tvkGetDeviceQueue( this.device, queueFamilyIndex, queueIndex, pQueue );\n\t}\n",
		"\tvoid CmdSetBlendConstants( const( float )* blendConstants ) {\n",
		"\t// VK_KHR_xlib_surface\n" +
			"\tversion( VK_USE_PLATFORM_XLIB_KHR ) {\n" +
			"\t\talias PFN_vkCreateXlibSurfaceKHR = VkResult function( VkInstance instance, const( VkXlibSurfaceCreateInfoKHR )* pCreateInfo, VkSurfaceKHR* pSurface );\n" +
			"\t}\n",
		"\t\talias PFN_vkGetPhysicalDeviceWaylandPresentationSupportKHR = VkBool32 function( VkPhysicalDevice physicalDevice, uint32_t queueFamilyIndex, wl_display* display );\n",
		"version( ERUPTED_FROM_DERELICT ) {\n",
		"class DerelictEruptedLoader : SharedLibLoader {\n",
	} {
		assert.Contains(t, functions, want)
	}

	assert.NotContains(t, functions, "VkResult QueueWaitIdle(", "only device and command buffer commands are forwarded")
	assert.NotContains(t, functions, "vkGetInstanceProcAddr = cast(", "vkGetInstanceProcAddr is set by the caller")
}

func TestEndFile_SplitLayout(t *testing.T) {
	out := t.TempDir()
	g, files := generate(t, Options{OutDir: out, PackagePrefix: "erupted.core", NamePrefix: "Erupted", Layout: LayoutSplit, Style: CompactStyle()})

	require.Len(t, g.Written, 4)
	assert.Equal(t, filepath.Join(out, "erupted", "core", "dynload.d"), g.Written[3])

	assert.Contains(t, files["package.d"], "version( EruptedStatic )\n\tpublic import erupted.core.statfun;\nelse\n\tpublic import erupted.core.dynload;\n")

	statfun := files["statfun.d"]
	assert.Contains(t, statfun, "module erupted.core.statfun;\n\nversion( EruptedStatic ):\n")
	assert.Contains(t, statfun, "\tVkResult vkCreateInstance(const(VkInstanceCreateInfo)* pCreateInfo, VkInstance* pInstance);\n")

	dynload := files["dynload.d"]
	assert.Contains(t, dynload, "version( EruptedStatic ) {} else:\n")
	assert.Contains(t, dynload, "\t\tbindFunc(cast(void**)&vkCreateInstance, \"vkCreateInstance\");\n")
	assert.Contains(t, dynload, "\t\tbindFunc(cast(void**)&vkCmdWriteTimestamp2, \"vkCmdWriteTimestamp2\");\n")
	assert.NotContains(t, dynload, "&vkCreateXlibSurfaceKHR", "extension commands are not bound from the library")
	assert.NotContains(t, dynload, "&vkCmdWriteTimestamp2KHR")
	assert.Contains(t, dynload, "\t// VK_KHR_synchronization2\n"+
		"\tvkCmdWriteTimestamp2KHR = cast(typeof(vkCmdWriteTimestamp2KHR))vkGetDeviceProcAddr(device, \"vkCmdWriteTimestamp2KHR\");\n")
	assert.Contains(t, dynload, "\t// VK_KHR_xlib_surface\n"+
		"\tversion(VK_USE_PLATFORM_XLIB_KHR) {\n"+
		"\t\tvkCreateXlibSurfaceKHR = cast(typeof(vkCreateXlibSurfaceKHR))vkGetInstanceProcAddr(instance, \"vkCreateXlibSurfaceKHR\");\n"+
		"\t}\n")
	assert.NotContains(t, dynload, "vkGetInstanceProcAddr(instance, \"vkCreateInstance\")", "core commands come from the library")
	assert.Contains(t, dynload, "class EruptedLoader : SharedLibLoader {\n")

	types := files["types.d"]
	assert.Contains(t, types, "module erupted.core.types;\n")
	assert.Contains(t, types, "struct VkTransformMatrixKHR {\n\tfloat[4][3] matrix;\n}\n")
	assert.Contains(t, types, "\tVkStructureType sType;\n")
	assert.Contains(t, types, "mixin(VK_DEFINE_HANDLE!q{VkInstance});\n")
	assert.NotContains(t, types, "_BEGIN_RANGE")
	assert.NotContains(t, types, "global enums")
}

func TestEndFile_DynloadLayout(t *testing.T) {
	g, files := generate(t, Options{NamePrefix: "vulkan bindings", Layout: LayoutDynload, Style: EruptedStyle()})

	require.Len(t, g.Written, 3)
	assert.Equal(t, "VulkanBindings", g.Options().NamePrefix)
	assert.Equal(t, "vulkan_bindings", g.Options().PackagePrefix)

	assert.Equal(t, "module vulkan_bindings;\n\npublic import vulkan_bindings.types;\npublic import vulkan_bindings.dynload;\n", files["package.d"])
	assert.NotContains(t, files["dynload.d"], "{} else:")
	assert.Contains(t, files["dynload.d"], "\t\tbindFunc( cast( void** )&vkCreateInstance, \"vkCreateInstance\" );\n")
	assert.Contains(t, files["dynload.d"], "__gshared VulkanBindingsLoader VulkanBindings;\n")

	dynload := files["dynload.d"]
	assert.Contains(t, dynload, "void loadInstanceLevelFunctions( VkInstance instance ) {\n")
	assert.Contains(t, dynload, "\tvkGetPhysicalDeviceWaylandPresentationSupportKHR = cast( typeof( vkGetPhysicalDeviceWaylandPresentationSupportKHR )) "+
		"vkGetInstanceProcAddr( instance, \"vkGetPhysicalDeviceWaylandPresentationSupportKHR\" );\n")
	assert.Contains(t, dynload, "void loadDeviceLevelFunctions( VkDevice device ) {\n")
	assert.Contains(t, dynload, "\tvkCmdWriteTimestamp2KHR = cast( typeof( vkCmdWriteTimestamp2KHR )) vkGetDeviceProcAddr( device, \"vkCmdWriteTimestamp2KHR\" );\n")
}

func TestEndFile_Rerun(t *testing.T) {
	out := t.TempDir()
	_, first := generate(t, Options{OutDir: out, NamePrefix: "Erupted", Style: EruptedStyle()})
	_, second := generate(t, Options{OutDir: out, NamePrefix: "Erupted", Style: EruptedStyle()})

	assert.Equal(t, first, second, "generation is deterministic")

	entries, err := os.ReadDir(filepath.Join(out, "erupted"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temporary files are left behind")
}
