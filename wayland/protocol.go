package wayland

// Interface names as advertised by wl_registry.global.
const (
	InterfaceCompositor = "wl_compositor"
	InterfaceShm        = "wl_shm"
	InterfaceOutput     = "wl_output"
	InterfaceSeat       = "wl_seat"
	InterfaceLayerShell = "zwlr_layer_shell_v1"
)

// Interface versions the client speaks.
const (
	compositorVersion = 4
	shmVersion        = 1
	outputVersion     = 3
	seatVersion       = 5
	layerShellVersion = 2
)

const displayID = 1

// wl_display
const (
	displaySync        = 0
	displayGetRegistry = 1

	displayEventError    = 0
	displayEventDeleteID = 1
)

// wl_registry
const (
	registryBind = 0

	registryEventGlobal       = 0
	registryEventGlobalRemove = 1
)

// wl_callback
const callbackEventDone = 0

// wl_compositor
const compositorCreateSurface = 0

// wl_surface
const (
	surfaceDestroy        = 0
	surfaceAttach         = 1
	surfaceDamage         = 2
	surfaceFrame          = 3
	surfaceCommit         = 6
	surfaceSetBufferScale = 8
	surfaceDamageBuffer   = 9
)

// wl_shm
const (
	shmCreatePool = 0

	shmEventFormat = 0
)

// Pixel formats from wl_shm.format.
const (
	FormatARGB8888 = 0
	FormatXRGB8888 = 1
)

// wl_shm_pool
const (
	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1
)

// wl_buffer
const (
	bufferDestroy = 0

	bufferEventRelease = 0
)

// wl_output
const (
	outputRelease = 0

	outputEventGeometry = 0
	outputEventMode     = 1
	outputEventDone     = 2
	outputEventScale    = 3
)

// OutputModeCurrent flags the mode an output is currently using.
const OutputModeCurrent = 0x1

// wl_seat
const (
	seatGetPointer = 0
	seatRelease    = 3

	seatEventCapabilities = 0
	seatEventName         = 1
)

// SeatCapabilityPointer is set when the seat has a pointer device.
const SeatCapabilityPointer = 0x1

// wl_pointer
const (
	pointerRelease = 1

	pointerEventEnter        = 0
	pointerEventLeave        = 1
	pointerEventMotion       = 2
	pointerEventButton       = 3
	pointerEventAxis         = 4
	pointerEventFrame        = 5
	pointerEventAxisSource   = 6
	pointerEventAxisStop     = 7
	pointerEventAxisDiscrete = 8
)

// zwlr_layer_shell_v1
const (
	layerShellGetLayerSurface = 0
	layerShellDestroy         = 1
)

// Layers of zwlr_layer_shell_v1.
const (
	LayerBackground = 0
	LayerBottom     = 1
	LayerTop        = 2
	LayerOverlay    = 3
)

// zwlr_layer_surface_v1
const (
	layerSurfaceSetSize                  = 0
	layerSurfaceSetAnchor                = 1
	layerSurfaceSetExclusiveZone         = 2
	layerSurfaceSetKeyboardInteractivity = 4
	layerSurfaceAckConfigure             = 6
	layerSurfaceDestroy                  = 7

	layerSurfaceEventConfigure = 0
	layerSurfaceEventClosed    = 1
)

// Anchor edges for LayerSurface.SetAnchor.
const (
	AnchorTop    = 1
	AnchorBottom = 2
	AnchorLeft   = 4
	AnchorRight  = 8

	AnchorAll = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)
