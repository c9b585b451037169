package rtl

import (
	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/ident"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// busSignal is one wire of a host bus interface.
type busSignal struct {
	name  string
	dir   sv.Direction
	width expr.Value
}

func (s busSignal) portName() string {
	if s.dir == sv.DirOutput {
		return "o_" + s.name
	}
	return "i_" + s.name
}

// protocolSpec describes a host bus adapter.
type protocolSpec struct {
	protocol      regmap.Protocol
	interfaceType string
	interfaceName string
	adapter       string
	// ifParameters are the interface instance parameter values.
	ifParameters func(cfg regmap.Configuration) []expr.Value
	// parameters are declared on the module; leading and trailing are the
	// names connected to the adapter before and after the common ones.
	parameters []sv.Parameter
	leading    []string
	trailing   []string
	signals    func(cfg regmap.Configuration) []busSignal
}

func (p protocolSpec) factory() component.Factory {
	return func(n *component.Node) component.Feature {
		block := n.Model.(*regmap.RegisterBlock)
		if block.Config.Protocol != p.protocol {
			return nil
		}
		return &hostAdapter{
			Base:  component.NewBase(component.FeatureID(component.LayerRegisterBlock, "protocol."+string(p.protocol)), n),
			spec:  p,
			block: block,
		}
	}
}

var idWidth = expr.Text("((ID_WIDTH>0)?ID_WIDTH:1)")

var protocols = []protocolSpec{
	{
		protocol:      regmap.ProtocolAXI4Lite,
		interfaceType: "rggen_axi4lite_if",
		interfaceName: "axi4lite_if",
		adapter:       "rggen_axi4lite_adapter",
		ifParameters: func(cfg regmap.Configuration) []expr.Value {
			return []expr.Value{expr.Name("ID_WIDTH"), expr.Name("ADDRESS_WIDTH"), expr.Int(cfg.BusWidth)}
		},
		parameters: []sv.Parameter{
			{ParameterType: "parameter", DataType: "int", Name: "ID_WIDTH", Default: expr.Int(0)},
			{ParameterType: "parameter", DataType: "bit", Name: "WRITE_FIRST", Default: expr.Int(1)},
		},
		leading:  []string{"ID_WIDTH"},
		trailing: []string{"WRITE_FIRST"},
		signals: func(cfg regmap.Configuration) []busSignal {
			aw := expr.Name("ADDRESS_WIDTH")
			bus := expr.Int(cfg.BusWidth)
			strb := expr.Int(cfg.ByteWidth())
			one := expr.Int(1)
			in, out := sv.DirInput, sv.DirOutput
			return []busSignal{
				{"awvalid", in, one}, {"awready", out, one}, {"awid", in, idWidth}, {"awaddr", in, aw}, {"awprot", in, expr.Int(3)},
				{"wvalid", in, one}, {"wready", out, one}, {"wdata", in, bus}, {"wstrb", in, strb},
				{"bvalid", out, one}, {"bready", in, one}, {"bid", out, idWidth}, {"bresp", out, expr.Int(2)},
				{"arvalid", in, one}, {"arready", out, one}, {"arid", in, idWidth}, {"araddr", in, aw}, {"arprot", in, expr.Int(3)},
				{"rvalid", out, one}, {"rready", in, one}, {"rid", out, idWidth}, {"rdata", out, bus}, {"rresp", out, expr.Int(2)},
			}
		},
	},
	{
		protocol:      regmap.ProtocolAPB,
		interfaceType: "rggen_apb_if",
		interfaceName: "apb_if",
		adapter:       "rggen_apb_adapter",
		ifParameters: func(cfg regmap.Configuration) []expr.Value {
			return []expr.Value{expr.Name("ADDRESS_WIDTH"), expr.Int(cfg.BusWidth)}
		},
		signals: func(cfg regmap.Configuration) []busSignal {
			one := expr.Int(1)
			in, out := sv.DirInput, sv.DirOutput
			return []busSignal{
				{"psel", in, one}, {"penable", in, one}, {"paddr", in, expr.Name("ADDRESS_WIDTH")}, {"pprot", in, expr.Int(3)},
				{"pwrite", in, one}, {"pstrb", in, expr.Int(cfg.ByteWidth())}, {"pwdata", in, expr.Int(cfg.BusWidth)},
				{"pready", out, one}, {"prdata", out, expr.Int(cfg.BusWidth)}, {"pslverr", out, one},
			}
		},
	},
}

// hostAdapter connects the host bus to the register interface array. With
// interface port folding the bus is a single interface port; otherwise every
// signal is a port and an interface instance is wired to them.
type hostAdapter struct {
	component.Base
	spec  protocolSpec
	block *regmap.RegisterBlock

	top     *blockTop
	params  map[string]*ident.Identifier
	busIf   *ident.Identifier
	signals []busSignal
	ports   []*ident.Identifier
}

func (f *hostAdapter) Build() error {
	top, err := lookup[*blockTop](f.Node(), IDBlockTop)
	if err != nil {
		return err
	}
	f.top = top
	cfg := f.block.Config

	f.params = map[string]*ident.Identifier{}
	for _, p := range f.spec.parameters {
		f.params[p.Name] = f.Parameter(domain, p)
	}

	f.signals = f.spec.signals(cfg)
	names := make([]string, len(f.signals))
	for i, s := range f.signals {
		names[i] = s.name
	}

	if cfg.FoldInterfacePort {
		f.busIf = f.Port(domain, sv.Port{
			InterfaceType: f.spec.interfaceType,
			Modport:       "slave",
			Name:          f.spec.interfaceName,
		}, ident.WithSubIdentifiers(names...))
	} else {
		for _, s := range f.signals {
			f.ports = append(f.ports, f.Port(domain, sv.Port{
				Direction: s.dir,
				DataType:  "logic",
				Width:     s.width,
				Name:      s.portName(),
			}))
		}
		f.busIf = f.Interface(domain, sv.InterfaceInstance{
			InterfaceType:   f.spec.interfaceType,
			Name:            f.spec.interfaceName,
			ParameterValues: f.spec.ifParameters(cfg),
		}, ident.WithSubIdentifiers(names...))
	}

	f.AddCode(component.CodeRegisterBlock, f.adapterInstance)
	if !cfg.FoldInterfacePort {
		f.AddCode(component.CodeRegisterBlock, f.portAssignments)
	}
	return nil
}

func (f *hostAdapter) adapterInstance(w *code.Writer) {
	var params []sv.Connection
	for _, name := range f.spec.leading {
		params = append(params, sv.Connect(name, f.params[name]))
	}
	params = append(params, f.top.adapterParameters()...)
	for _, name := range f.spec.trailing {
		params = append(params, sv.Connect(name, f.params[name]))
	}
	sv.Instance{
		ModuleType: f.spec.adapter,
		Name:       "u_adapter",
		Parameters: params,
		Ports: []sv.Connection{
			sv.Connect("i_clk", f.top.clock),
			sv.Connect("i_rst_n", f.top.reset),
			sv.Connect(f.spec.interfaceName, f.busIf),
			sv.Connect("register_if", f.top.registerIf),
		},
	}.Render(w)
}

func (f *hostAdapter) portAssignments(w *code.Writer) {
	for i, s := range f.signals {
		wire := f.busIf.MustSub(s.name)
		if s.dir == sv.DirOutput {
			w.Line(sv.Assign(f.ports[i], wire))
		} else {
			w.Line(sv.Assign(wire, f.ports[i]))
		}
	}
}
