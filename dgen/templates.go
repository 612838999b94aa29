package dgen

import (
	"text/template"
)

type fileData struct {
	Package   string
	Name      string
	NameUpper string

	HeaderVersion string
	Body          string

	Aliases string
	Globals string

	GlobalLoads             string
	InstanceLoads           string
	DeviceLoadsFromInstance string
	DeviceLoadsFromDevice   string
	DispatchLoads           string
	Convenience             string
	DispatchMembers         string

	Prototypes       string
	Binds            string
	ExtInstanceLoads string
	ExtDeviceLoads   string
	// Gated makes dynload.d compile only when the static version is not selected.
	Gated bool
}

var templates = template.Must(template.New("dgen").Parse(`
{{- define "package.dispatch" -}}
module {{.Package}};

public import {{.Package}}.types;
public import {{.Package}}.functions;
{{end}}

{{- define "package.split" -}}
module {{.Package}};

public import {{.Package}}.types;

version( {{.Name}}Static )
	public import {{.Package}}.statfun;
else
	public import {{.Package}}.dynload;
{{end}}

{{- define "package.dynload" -}}
module {{.Package}};

public import {{.Package}}.types;
public import {{.Package}}.dynload;
{{end}}

{{- define "types" -}}
module {{.Package}}.types;

import std.bitmanip : bitfields;

alias uint8_t   = ubyte;
alias uint16_t  = ushort;
alias uint32_t  = uint;
alias uint64_t  = ulong;
alias int8_t    = byte;
alias int16_t   = short;
alias int32_t   = int;
alias int64_t   = long;

@nogc nothrow:
pure {
	uint VK_MAKE_VERSION( uint major, uint minor, uint patch ) {
		return ( major << 22 ) | ( minor << 12 ) | ( patch );
	}

	uint VK_MAKE_API_VERSION( uint variant, uint major, uint minor, uint patch ) {
		return ( variant << 29 ) | ( major << 22 ) | ( minor << 12 ) | ( patch );
	}

	uint VK_VERSION_MAJOR( uint ver ) { return ver >> 22; }
	uint VK_VERSION_MINOR( uint ver ) { return ( ver >> 12 ) & 0x3ff; }
	uint VK_VERSION_PATCH( uint ver ) { return ver & 0xfff; }

	uint VK_API_VERSION_VARIANT( uint ver ) { return ver >> 29; }
	uint VK_API_VERSION_MAJOR( uint ver ) { return ( ver >> 22 ) & 0x7f; }
	uint VK_API_VERSION_MINOR( uint ver ) { return ( ver >> 12 ) & 0x3ff; }
	uint VK_API_VERSION_PATCH( uint ver ) { return ver & 0xfff; }
}

// linkage of debug and allocation callbacks
extern( System ):
{{if .HeaderVersion}}
// version of the corresponding C header
enum VK_HEADER_VERSION = {{.HeaderVersion}};
{{end}}
enum VK_NULL_HANDLE = null;

enum VK_DEFINE_HANDLE( string name ) = "struct " ~ name ~ "_handle; alias " ~ name ~ " = " ~ name ~ "_handle*;";

version( X86_64 ) {
	alias VK_DEFINE_NON_DISPATCHABLE_HANDLE( string name ) = VK_DEFINE_HANDLE!name;
	enum VK_NULL_ND_HANDLE = null;
} else {
	enum VK_DEFINE_NON_DISPATCHABLE_HANDLE( string name ) = "alias " ~ name ~ " = ulong;";
	enum VK_NULL_ND_HANDLE = 0uL;
}
{{.Body}}
{{- end}}

{{- define "functions" -}}
module {{.Package}}.functions;

public import {{.Package}}.types;

extern( System ) @nogc nothrow {
{{.Aliases -}}
}

__gshared {
{{.Globals -}}
}

/// if not using version "{{.NameUpper}}_FROM_DERELICT" this function must be called first
/// it sets vkGetInstanceProcAddr and loads the functions that do not need an instance
void loadGlobalLevelFunctions( typeof( vkGetInstanceProcAddr ) getProcAddr ) {
	vkGetInstanceProcAddr = getProcAddr;
{{.GlobalLoads -}}
}

/// loads the functions bound to a VkInstance, VkPhysicalDevice and their children
void loadInstanceLevelFunctions( VkInstance instance ) {
	assert( vkGetInstanceProcAddr !is null, "Function pointer vkGetInstanceProcAddr is null!\nCall loadGlobalLevelFunctions -> loadInstanceLevelFunctions" );
{{.InstanceLoads -}}
}

/// loads device level functions through the instance, they dispatch to the
/// right device at the cost of one extra indirection
void loadDeviceLevelFunctions( VkInstance instance ) {
	assert( vkGetInstanceProcAddr !is null, "Function pointer vkGetInstanceProcAddr is null!\nCall loadGlobalLevelFunctions -> loadDeviceLevelFunctions( instance )" );
{{.DeviceLoadsFromInstance -}}
}

/// loads device level functions bound to a single VkDevice
void loadDeviceLevelFunctions( VkDevice device ) {
	assert( vkGetDeviceProcAddr !is null, "Function pointer vkGetDeviceProcAddr is null!\nCall loadGlobalLevelFunctions -> loadInstanceLevelFunctions -> loadDeviceLevelFunctions( device )" );
{{.DeviceLoadsFromDevice -}}
}

/// deprecated, construct a DispatchDevice directly
deprecated( "Use DispatchDevice( device ) or DispatchDevice.loadDeviceLevelFunctions( device ) instead" )
DispatchDevice createDispatchDeviceLevelFunctions( VkDevice device ) {
	return DispatchDevice( device );
}

/// groups device level functions per device, keeping the device the
/// functions were loaded for and an optional command buffer
struct DispatchDevice {

	private VkDevice device = VK_NULL_HANDLE;
	VkCommandBuffer commandBuffer;

	/// a copy of the bound VkDevice
	VkDevice vkDevice() {
		return device;
	}

	/// forwards device to loadDeviceLevelFunctions
	this( VkDevice device ) {
		this.loadDeviceLevelFunctions( device );
	}

	/// loads the device level member functions and binds device
	void loadDeviceLevelFunctions( VkDevice device ) {
		assert( vkGetDeviceProcAddr !is null, "Function pointer vkGetDeviceProcAddr is null!\nCall loadGlobalLevelFunctions -> loadInstanceLevelFunctions -> DispatchDevice.loadDeviceLevelFunctions" );
		this.device = device;
{{.DispatchLoads -}}
	}

	/// member functions forwarding to the function pointers below with the
	/// bound device or commandBuffer as first argument
{{.Convenience}}
	/// function pointers loaded for device
{{.DispatchMembers -}}
}

/// load vkGetInstanceProcAddr from the Vulkan loader library through derelict
version( {{.NameUpper}}_FROM_DERELICT ) {

	import derelict.util.loader;
	import derelict.util.system;

	private {
		version( Windows )
			enum libNames = "vulkan-1.dll";

		else version( Posix )
			enum libNames = "libvulkan.so.1";

		else
			static assert( 0,"Need to implement Vulkan libNames for this operating system." );
	}

	class Derelict{{.Name}}Loader : SharedLibLoader {
		this() {
			super( libNames );
		}

		protected override void loadSymbols() {
			typeof( vkGetInstanceProcAddr ) getProcAddr;
			bindFunc( cast( void** )&getProcAddr, "vkGetInstanceProcAddr" );
			loadGlobalLevelFunctions( getProcAddr );
		}
	}

	__gshared Derelict{{.Name}}Loader Derelict{{.Name}};

	shared static this() {
		Derelict{{.Name}} = new Derelict{{.Name}}Loader();
	}
}
{{end}}

{{- define "statfun" -}}
module {{.Package}}.statfun;

version( {{.Name}}Static ):

public import {{.Package}}.types;

extern( System ) @nogc nothrow {
{{.Prototypes -}}
}
{{end}}

{{- define "dynload" -}}
module {{.Package}}.dynload;
{{if .Gated}}
version( {{.Name}}Static ) {} else:
{{end}}
public import {{.Package}}.types;

import derelict.util.loader;
import derelict.util.system;

private {
	version( Windows )
		enum libNames = "vulkan-1.dll";
	else version( OSX )
		enum libNames = "libvulkan.1.dylib,libMoltenVK.dylib";
	else version( Posix )
		enum libNames = "libvulkan.so.1,libvulkan.so";
	else
		static assert( 0, "Need to implement Vulkan libNames for this operating system." );
}

extern( System ) @nogc nothrow {
{{.Aliases -}}
}

__gshared {
{{.Globals -}}
}

class {{.Name}}Loader : SharedLibLoader {
	public this() {
		super( libNames );
	}

	protected override void loadSymbols() {
{{.Binds -}}
	}
}

__gshared {{.Name}}Loader {{.Name}};

shared static this() {
	{{.Name}} = new {{.Name}}Loader();
}

/// loads the extension functions bound to a VkInstance, VkPhysicalDevice and
/// their children, call after {{.Name}}.load() and vkCreateInstance
void loadInstanceLevelFunctions( VkInstance instance ) {
	assert( vkGetInstanceProcAddr !is null, "Function pointer vkGetInstanceProcAddr is null!\nCall {{.Name}}.load -> loadInstanceLevelFunctions" );
{{.ExtInstanceLoads -}}
}

/// loads the extension functions bound to a single VkDevice
void loadDeviceLevelFunctions( VkDevice device ) {
	assert( vkGetDeviceProcAddr !is null, "Function pointer vkGetDeviceProcAddr is null!\nCall {{.Name}}.load -> loadDeviceLevelFunctions" );
{{.ExtDeviceLoads -}}
}
{{end}}
`))
