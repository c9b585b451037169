package sv

import (
	"testing"

	"svreg/internal/expr"
	"svreg/internal/ident"
)

func TestVariableDeclaration(t *testing.T) {
	tests := []struct {
		v    Variable
		want string
	}{
		{Variable{Name: "foo_0", DataType: "int"}, "int foo_0"},
		{Variable{Name: "bar_0", DataType: "bit", Width: expr.Int(1)}, "bit bar_0"},
		{Variable{Name: "bar_1", DataType: "bit", Width: expr.Int(2)}, "bit [1:0] bar_1"},
		{Variable{Name: "baz_0", DataType: "int", ArraySize: expr.Ints(2)}, "int baz_0[2]"},
		{Variable{Name: "qux_0", DataType: "bit", Width: expr.Int(3), Random: true}, "rand bit [2:0] qux_0"},
		{Variable{Name: "v", DataType: "logic", Width: expr.Name("WIDTH")}, "logic [WIDTH-1:0] v"},
		{Variable{Name: "v", DataType: "logic", Width: expr.Int(4), ArraySize: expr.Ints(2, 3), ArrayFormat: ident.Packed}, "logic [1:0][2:0][3:0] v"},
		{Variable{Name: "v", DataType: "logic", Width: expr.Int(4), ArraySize: expr.Ints(2, 3), ArrayFormat: ident.Serialized}, "logic [23:0] v"},
		{Variable{Name: "v", DataType: "logic", Width: expr.Int(4), ArraySize: expr.Names("N"), ArrayFormat: ident.Serialized}, "logic [4*N-1:0] v"},
	}
	for _, tt := range tests {
		if got := tt.v.Declaration(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestParameterDeclaration(t *testing.T) {
	tests := []struct {
		p    Parameter
		want string
	}{
		{Parameter{Name: "FOO_0", Default: expr.Int(0)}, "FOO_0 = 0"},
		{Parameter{ParameterType: "localparam", Name: "INITIAL_VALUE", DataType: "bit", Width: expr.Int(4), Default: expr.Text("4'h0")}, "localparam bit [3:0] INITIAL_VALUE = 4'h0"},
		{Parameter{ParameterType: "parameter", DataType: "int", Name: "ID_WIDTH", Default: expr.Int(0)}, "parameter int ID_WIDTH = 0"},
	}
	for _, tt := range tests {
		if got := tt.p.Declaration(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestPortDeclaration(t *testing.T) {
	tests := []struct {
		p    Port
		want string
	}{
		{Port{Direction: DirInput, DataType: "logic", Name: "i_clk"}, "input logic i_clk"},
		{Port{Direction: DirOutput, DataType: "logic", Width: expr.Int(4), Name: "o_value", ArraySize: expr.Ints(2), ArrayFormat: ident.Unpacked}, "output logic [3:0] o_value[2]"},
		{Port{InterfaceType: "rggen_axi4lite_if", Modport: "slave", Name: "axi4lite_if"}, "rggen_axi4lite_if.slave axi4lite_if"},
		{Port{Name: "foo", DataType: "bit", Width: expr.Int(1)}, "bit foo"},
	}
	for _, tt := range tests {
		if got := tt.p.Declaration(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestInterfaceInstanceDeclaration(t *testing.T) {
	i := InterfaceInstance{
		InterfaceType:   "rggen_register_if",
		Name:            "register_if",
		ParameterValues: []expr.Value{expr.Name("ADDRESS_WIDTH"), expr.Int(32), expr.Int(32)},
		ArraySize:       expr.Ints(12),
	}
	if got := i.Declaration(); got != "rggen_register_if #(ADDRESS_WIDTH, 32, 32) register_if[12]()" {
		t.Fatalf("got %q", got)
	}
	bare := InterfaceInstance{InterfaceType: "rggen_bit_field_if", Name: "bit_field_sub_if"}
	if got := bare.Declaration(); got != "rggen_bit_field_if bit_field_sub_if()" {
		t.Fatalf("got %q", got)
	}
}

func TestVariableIdentifierCarriesAttributes(t *testing.T) {
	v := Variable{Name: "foo", DataType: "logic", Width: expr.Int(8), ArraySize: expr.Ints(4), ArrayFormat: ident.Serialized}
	if got := v.Identifier().At(expr.Int(1)).String(); got != "foo[8+:8]" {
		t.Fatalf("got %q", got)
	}
}
