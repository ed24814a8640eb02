package java

// Target types from the JVMS type_annotation structure (section 4.7.20).
const (
	TargetClassTypeParameter       = 0x00
	TargetMethodTypeParameter      = 0x01
	TargetClassExtends             = 0x10
	TargetClassTypeParameterBound  = 0x11
	TargetMethodTypeParameterBound = 0x12
	TargetField                    = 0x13
	TargetMethodReturn             = 0x14
	TargetMethodReceiver           = 0x15
	TargetMethodFormalParameter    = 0x16
	TargetThrows                   = 0x17
)
