package component

// Layer names the level a node sits at.
type Layer string

const (
	LayerRegisterBlock Layer = "register_block"
	LayerRegister      Layer = "register"
	LayerBitField      Layer = "bit_field"
)

// Domain groups declarations and imports by where they are emitted.
type Domain string

const (
	DomainRegisterBlock Domain = "register_block"
	DomainRegister      Domain = "register"
	DomainBitField      Domain = "bit_field"
	DomainPackage       Domain = "package"
)

// Kind classifies a declaration.
type Kind uint8

const (
	KindVariable Kind = iota
	KindParameter
	KindPort
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindParameter:
		return "parameter"
	case KindPort:
		return "port"
	}
	return "unknown"
}

// CodeKind selects the place generated code is written to.
type CodeKind string

const (
	CodeRegisterBlock CodeKind = "register_block"
	CodeRegister      CodeKind = "register"
	CodeBitField      CodeKind = "bit_field"
	CodeRALPackage    CodeKind = "ral_package"
)

// Mode orders code generation between a node and its children.
type Mode uint8

const (
	// TopDown emits own features first, then children.
	TopDown Mode = iota
	// BottomUp emits children first, then own features.
	BottomUp
)
