package rtl

import (
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/ident"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

const domain = component.DomainRegisterBlock

// blockTop declares the module-level clock, reset, common parameters and the
// register interface array every register slot connects to.
type blockTop struct {
	component.Base
	block *regmap.RegisterBlock

	clock, reset    *ident.Identifier
	addressWidth    *ident.Identifier
	preDecode       *ident.Identifier
	baseAddress     *ident.Identifier
	errorStatus     *ident.Identifier
	defaultReadData *ident.Identifier
	registerIf      *ident.Identifier
}

func newBlockTop(n *component.Node) component.Feature {
	return &blockTop{
		Base:  component.NewBase(IDBlockTop, n),
		block: n.Model.(*regmap.RegisterBlock),
	}
}

func (f *blockTop) Build() error {
	cfg := f.block.Config
	f.ImportPackage(domain, "rggen_rtl_pkg")

	f.clock = f.Port(domain, sv.Port{Direction: sv.DirInput, DataType: "logic", Name: "i_clk"})
	f.reset = f.Port(domain, sv.Port{Direction: sv.DirInput, DataType: "logic", Name: "i_rst_n"})

	f.addressWidth = f.Parameter(domain, sv.Parameter{
		ParameterType: "parameter", DataType: "int", Name: "ADDRESS_WIDTH", Default: expr.Int(cfg.AddressWidth),
	})
	f.preDecode = f.Parameter(domain, sv.Parameter{
		ParameterType: "parameter", DataType: "bit", Name: "PRE_DECODE", Default: expr.Int(0),
	})
	f.baseAddress = f.Parameter(domain, sv.Parameter{
		ParameterType: "parameter", DataType: "bit", Width: expr.Name("ADDRESS_WIDTH"), Name: "BASE_ADDRESS", Default: expr.Text("'0"),
	})
	f.errorStatus = f.Parameter(domain, sv.Parameter{
		ParameterType: "parameter", DataType: "bit", Name: "ERROR_STATUS", Default: expr.Int(0),
	})
	f.defaultReadData = f.Parameter(domain, sv.Parameter{
		ParameterType: "parameter", DataType: "bit", Width: expr.Int(cfg.BusWidth), Name: "DEFAULT_READ_DATA", Default: expr.Text("'0"),
	})

	f.registerIf = f.Interface(domain, sv.InterfaceInstance{
		InterfaceType:   "rggen_register_if",
		Name:            "register_if",
		ParameterValues: []expr.Value{expr.Name("ADDRESS_WIDTH"), expr.Int(cfg.BusWidth), expr.Int(cfg.BusWidth)},
		ArraySize:       expr.Ints(f.block.TotalCount()),
	}, ident.WithSubIdentifiers("value"))
	return nil
}

// adapterParameters are the connections every bus adapter shares, in the
// order the adapters declare them.
func (f *blockTop) adapterParameters() []sv.Connection {
	cfg := f.block.Config
	return []sv.Connection{
		sv.Connect("ADDRESS_WIDTH", f.addressWidth),
		sv.ConnectValue("LOCAL_ADDRESS_WIDTH", expr.Int(f.block.LocalAddressWidth())),
		sv.ConnectValue("BUS_WIDTH", expr.Int(cfg.BusWidth)),
		sv.ConnectValue("REGISTERS", expr.Int(f.block.TotalCount())),
		sv.Connect("PRE_DECODE", f.preDecode),
		sv.Connect("BASE_ADDRESS", f.baseAddress),
		sv.ConnectValue("BYTE_SIZE", expr.Int(f.block.ByteSize)),
		sv.Connect("ERROR_STATUS", f.errorStatus),
		sv.Connect("DEFAULT_READ_DATA", f.defaultReadData),
	}
}

// RegisterIf returns the register interface slot index.
func (f *blockTop) RegisterIf(index expr.Value) *ident.Identifier {
	return f.registerIf.Bit(index)
}
