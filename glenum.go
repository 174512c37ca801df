package glmesh

// GL enumerants issued by this package. The values are fixed by the GL 3.3
// and GLES 3.0 registries; gles tests compare them with the binding's.
const (
	glNoError                     = 0x0000
	glInvalidEnum                 = 0x0500
	glInvalidValue                = 0x0501
	glInvalidOperation            = 0x0502
	glOutOfMemory                 = 0x0505
	glInvalidFramebufferOperation = 0x0506

	glPoints        = 0x0000
	glLines         = 0x0001
	glLineLoop      = 0x0002
	glLineStrip     = 0x0003
	glTriangles     = 0x0004
	glTriangleStrip = 0x0005
	glTriangleFan   = 0x0006

	glUnsignedInt = 0x1405
	glFloat       = 0x1406

	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893
	glDynamicDraw        = 0x88E8
)
