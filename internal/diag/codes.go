package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// configuration
	CfgInfo                Code = 1000
	CfgUnsupportedBusWidth Code = 1001
	CfgUnknownProtocol     Code = 1002
	CfgUnknownArrayFormat  Code = 1003
	CfgUnknownFieldType    Code = 1004
	CfgDuplicateName       Code = 1005
	CfgDanglingReference   Code = 1006
	CfgInvalidSize         Code = 1007
	CfgMissingValue        Code = 1008
	CfgOverlappingField    Code = 1009
	CfgAddressOutOfRange   Code = 1010
	CfgInvalidReference    Code = 1011
	CfgUnknownKey          Code = 1012
	CfgUnknownFeature      Code = 1013

	// shape
	ShpInfo                 Code = 2000
	ShpArityMismatch        Code = 2001
	ShpUnknownSubIdentifier Code = 2002

	// io
	IOInfo          Code = 3000
	IOLoadFileError Code = 3001
	IOWriteError    Code = 3002
	IOCacheError    Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	CfgInfo:                 "Configuration information",
	CfgUnsupportedBusWidth:  "Unsupported bus width",
	CfgUnknownProtocol:      "Unknown protocol",
	CfgUnknownArrayFormat:   "Unknown array port format",
	CfgUnknownFieldType:     "Unknown bit field type",
	CfgDuplicateName:        "Duplicate name",
	CfgDanglingReference:    "Reference to an unknown bit field",
	CfgInvalidSize:          "Invalid size",
	CfgMissingValue:         "Missing value",
	CfgOverlappingField:     "Overlapping bit fields",
	CfgAddressOutOfRange:    "Address out of range",
	CfgInvalidReference:     "Invalid reference",
	CfgUnknownKey:           "Unknown key",
	CfgUnknownFeature:       "Unknown feature",
	ShpInfo:                 "Shape information",
	ShpArityMismatch:        "Selector arity mismatch",
	ShpUnknownSubIdentifier: "Unknown sub identifier",
	IOInfo:                  "I/O information",
	IOLoadFileError:         "Failed to load file",
	IOWriteError:            "Failed to write file",
	IOCacheError:            "Output cache failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SHP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
